package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	if current := a.store.Current(); current != nil {
		return fmt.Sprintf("(%s)", current.Email)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to the Mijn Dossier CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

package session

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/antonnoe/dossierfrankrijk/internal/client/api"
	"github.com/antonnoe/dossierfrankrijk/internal/common"
)

// Outcome is where the bridge sends the user once the login state settles.
type Outcome string

const (
	OutcomeDashboard Outcome = "dashboard"
	OutcomeLogin     Outcome = "login"
)

// API is the slice of the server client the bridge needs.
type API interface {
	ExchangeCode(ctx context.Context, code string) error
	CurrentSession(ctx context.Context) (*api.Session, error)
}

// Bridge resolves the URL a magic-link redirect landed on into a session, or
// the lack of one. It prefers a session-change notification from the store
// and falls back to one timed poll before giving up.
type Bridge struct {
	api   API
	store *Store

	// errorDelay holds the failure message on screen before the login
	// redirect; pollDelay is the fallback poll interval.
	errorDelay time.Duration
	pollDelay  time.Duration
}

func NewBridge(apiClient API, store *Store) *Bridge {
	return &Bridge{
		api:        apiClient,
		store:      store,
		errorDelay: 2 * time.Second,
		pollDelay:  time.Second,
	}
}

// fragmentError extracts an error description from a redirect URL fragment,
// e.g. "#error=access_denied&error_description=Link+expired".
func fragmentError(fragment string) string {
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return ""
	}
	if desc := values.Get("error_description"); desc != "" {
		return strings.ReplaceAll(desc, "+", " ")
	}
	return values.Get("error")
}

// Resolve drives the state machine for one landed redirect URL:
// checking, then dashboard, or a bounded retry-wait that ends in either.
func (b *Bridge) Resolve(ctx context.Context, rawURL string) (Outcome, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return OutcomeLogin, err
	}

	if msg := fragmentError(u.Fragment); msg != "" {
		b.sleep(ctx, b.errorDelay)
		return OutcomeLogin, common.ErrorUnauthorized
	}

	if code := u.Query().Get("code"); code != "" {
		if err := b.api.ExchangeCode(ctx, code); err != nil {
			return OutcomeLogin, err
		}
	}

	if session, err := b.api.CurrentSession(ctx); err == nil {
		b.store.Set(session)
		return OutcomeDashboard, nil
	}

	return b.awaitSession(ctx)
}

// awaitSession waits for the session to appear: a store notification wins,
// one poll after pollDelay is the fallback, anything else is a signed-out
// user.
func (b *Bridge) awaitSession(ctx context.Context) (Outcome, error) {
	id, events := b.store.Subscribe()
	defer b.store.Unsubscribe(id)

	polled := make(chan *api.Session, 1)
	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()

	go func() {
		defer close(polled)
		b.sleep(pollCtx, b.pollDelay)
		if pollCtx.Err() != nil {
			return
		}
		session, err := b.api.CurrentSession(pollCtx)
		if err != nil {
			return
		}
		polled <- session
	}()

	for {
		select {
		case session := <-events:
			if session != nil {
				return OutcomeDashboard, nil
			}
		case session, ok := <-polled:
			if ok && session != nil {
				b.store.Set(session)
				return OutcomeDashboard, nil
			}
			return OutcomeLogin, nil
		case <-ctx.Done():
			return OutcomeLogin, ctx.Err()
		}
	}
}

func (b *Bridge) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

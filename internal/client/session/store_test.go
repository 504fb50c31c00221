package session

import (
	"testing"
	"time"

	"github.com/antonnoe/dossierfrankrijk/internal/client/api"
)

func TestStore_SetNotifiesSubscribers(t *testing.T) {
	store := NewStore()

	id, events := store.Subscribe()
	defer store.Unsubscribe(id)

	store.Set(&api.Session{UserID: "u1"})

	select {
	case s := <-events:
		if s == nil || s.UserID != "u1" {
			t.Errorf("received %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}

	if store.Current().UserID != "u1" {
		t.Errorf("current = %+v", store.Current())
	}
}

func TestStore_UnsubscribeStopsDelivery(t *testing.T) {
	store := NewStore()

	id, events := store.Subscribe()
	store.Unsubscribe(id)
	store.Unsubscribe(id) // twice is fine

	store.Set(&api.Session{UserID: "u1"})

	select {
	case s := <-events:
		t.Errorf("received %+v after unsubscribe", s)
	default:
	}
}

func TestStore_SignOutIsNil(t *testing.T) {
	store := NewStore()
	store.Set(&api.Session{UserID: "u1"})
	store.Set(nil)
	if store.Current() != nil {
		t.Errorf("current = %+v, want nil", store.Current())
	}
}

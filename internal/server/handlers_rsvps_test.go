package server

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
)

func TestRSVPCreateAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	guestToken, _ := env.login(t, "uid-guest", "Gary Guest", false)
	party := env.createParty(t, hostToken, "RSVP Party")

	var rsvp db.RSVP
	env.doJSON(t, http.MethodPost, "/api/rsvps", guestToken, gin.H{
		"party": party.ID, "status": "yes",
	}, http.StatusCreated, &rsvp)
	if rsvp.GuestCount != 1 {
		t.Fatalf("expected default guest count 1, got %d", rsvp.GuestCount)
	}

	// One reply per guest per party.
	resp := env.do(t, http.MethodPost, "/api/rsvps", guestToken, gin.H{
		"party": party.ID, "status": "no",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for duplicate rsvp, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestRSVPRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	party := env.createParty(t, hostToken, "Strict Party")

	resp := env.do(t, http.MethodPost, "/api/rsvps", hostToken, gin.H{
		"party": party.ID, "status": "definitely",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for bad status, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestRSVPListVisibility(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	guestToken, guest := env.login(t, "uid-guest", "Gary Guest", false)
	otherToken, _ := env.login(t, "uid-other", "Oscar Other", false)
	party := env.createParty(t, hostToken, "Guest List Party")

	env.doJSON(t, http.MethodPost, "/api/rsvps", guestToken, gin.H{
		"party": party.ID, "status": "yes",
	}, http.StatusCreated, nil)
	env.doJSON(t, http.MethodPost, "/api/rsvps", otherToken, gin.H{
		"party": party.ID, "status": "maybe",
	}, http.StatusCreated, nil)

	var listing struct {
		RSVPs []db.RSVP `json:"rsvps"`
	}
	env.doJSON(t, http.MethodGet, "/api/rsvps?party="+itoa(party.ID), hostToken, nil, http.StatusOK, &listing)
	if len(listing.RSVPs) != 2 {
		t.Fatalf("expected host to see 2 rsvps, got %d", len(listing.RSVPs))
	}

	env.doJSON(t, http.MethodGet, "/api/rsvps?party="+itoa(party.ID), guestToken, nil, http.StatusOK, &listing)
	if len(listing.RSVPs) != 1 || listing.RSVPs[0].UserID != guest.ID {
		t.Fatalf("expected guest to see only their own rsvp, got %+v", listing.RSVPs)
	}
}

func TestRSVPUpdatePermissionsAndSummary(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	guestToken, _ := env.login(t, "uid-guest", "Gary Guest", false)
	otherToken, _ := env.login(t, "uid-other", "Oscar Other", false)
	party := env.createParty(t, hostToken, "Summary Party")

	var rsvp db.RSVP
	env.doJSON(t, http.MethodPost, "/api/rsvps", guestToken, gin.H{
		"party": party.ID, "status": "yes", "guest_count": 4,
	}, http.StatusCreated, &rsvp)
	env.doJSON(t, http.MethodPost, "/api/rsvps", otherToken, gin.H{
		"party": party.ID, "status": "no",
	}, http.StatusCreated, nil)

	resp := env.do(t, http.MethodPut, "/api/rsvps/"+itoa(rsvp.ID), otherToken, gin.H{
		"party": party.ID, "status": "no",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d updating someone else's rsvp, got %d", http.StatusForbidden, resp.StatusCode)
	}

	var summary struct {
		Yes            int64 `json:"yes"`
		No             int64 `json:"no"`
		Maybe          int64 `json:"maybe"`
		ExpectedGuests int   `json:"expected_guests"`
	}
	env.doJSON(t, http.MethodGet, "/api/parties/"+itoa(party.ID)+"/rsvps/summary", hostToken, nil, http.StatusOK, &summary)
	if summary.Yes != 1 || summary.No != 1 || summary.Maybe != 0 {
		t.Fatalf("unexpected summary counts: %+v", summary)
	}
	if summary.ExpectedGuests != 4 {
		t.Fatalf("expected 4 expected guests, got %d", summary.ExpectedGuests)
	}
}

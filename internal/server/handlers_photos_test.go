package server

import (
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
)

func TestDecodeImageData(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := base64.StdEncoding.EncodeToString(raw)

	image, contentType, err := decodeImageData(encoded)
	if err != nil {
		t.Fatalf("decode raw base64: %v", err)
	}
	if string(image) != string(raw) || contentType != "image/png" {
		t.Fatalf("unexpected decode result: %q %q", image, contentType)
	}

	image, contentType, err = decodeImageData("data:image/jpeg;base64," + encoded)
	if err != nil {
		t.Fatalf("decode data url: %v", err)
	}
	if string(image) != string(raw) || contentType != "image/jpeg" {
		t.Fatalf("unexpected data url decode: %q %q", image, contentType)
	}

	if _, _, err := decodeImageData("data:image/png;base64"); err == nil {
		t.Fatal("expected error for malformed data url")
	}
	if _, _, err := decodeImageData("!!!not-base64!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestPhotoUploadAndRawImage(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	party := env.createParty(t, hostToken, "Photo Party")

	raw := []byte("fake-jpeg-bytes")
	var photo db.PartyPhoto
	env.doJSON(t, http.MethodPost, "/api/photos", hostToken, gin.H{
		"party":      party.ID,
		"image_data": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw),
		"caption":    "cake time",
	}, http.StatusCreated, &photo)

	resp := env.do(t, http.MethodGet, "/api/photos/"+itoa(photo.ID)+"/image", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d for raw image, got %d", http.StatusOK, resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("expected image/jpeg content type, got %q", got)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read image body: %v", err)
	}
	if string(body) != string(raw) {
		t.Fatalf("raw image bytes do not round-trip: got %d bytes", len(body))
	}
}

func TestPhotoUploadRejectsOversizedImage(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	party := env.createParty(t, hostToken, "Limits Party")
	env.srv.cfg.MaxPhotoBytes = 8

	resp := env.do(t, http.MethodPost, "/api/photos", hostToken, gin.H{
		"party":      party.ID,
		"image_data": base64.StdEncoding.EncodeToString([]byte("way more than eight bytes")),
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for oversized image, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestPhotoLikeUnlikeFlow(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	guestToken, _ := env.login(t, "uid-guest", "Gary Guest", false)
	party := env.createParty(t, hostToken, "Like Party")

	var photo db.PartyPhoto
	env.doJSON(t, http.MethodPost, "/api/photos", hostToken, gin.H{
		"party":      party.ID,
		"image_data": base64.StdEncoding.EncodeToString([]byte("img")),
	}, http.StatusCreated, &photo)

	var likes struct {
		LikesCount int64 `json:"likes_count"`
	}
	env.doJSON(t, http.MethodPost, "/api/photos/"+itoa(photo.ID)+"/like", guestToken, nil, http.StatusCreated, &likes)
	if likes.LikesCount != 1 {
		t.Fatalf("expected 1 like, got %d", likes.LikesCount)
	}

	resp := env.do(t, http.MethodPost, "/api/photos/"+itoa(photo.ID)+"/like", guestToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for double like, got %d", http.StatusConflict, resp.StatusCode)
	}

	env.doJSON(t, http.MethodDelete, "/api/photos/"+itoa(photo.ID)+"/like", guestToken, nil, http.StatusOK, &likes)
	if likes.LikesCount != 0 {
		t.Fatalf("expected 0 likes after unlike, got %d", likes.LikesCount)
	}

	resp = env.do(t, http.MethodDelete, "/api/photos/"+itoa(photo.ID)+"/like", guestToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d unliking twice, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestPhotoDeletePermissions(t *testing.T) {
	env := newTestEnv(t)
	hostToken, _ := env.login(t, "uid-host", "Holly Host", false)
	guestToken, _ := env.login(t, "uid-guest", "Gary Guest", false)
	otherToken, _ := env.login(t, "uid-other", "Oscar Other", false)
	party := env.createParty(t, hostToken, "Cleanup Party")

	var photo db.PartyPhoto
	env.doJSON(t, http.MethodPost, "/api/photos", guestToken, gin.H{
		"party":      party.ID,
		"image_data": base64.StdEncoding.EncodeToString([]byte("img")),
	}, http.StatusCreated, &photo)

	resp := env.do(t, http.MethodDelete, "/api/photos/"+itoa(photo.ID), otherToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for unrelated user, got %d", http.StatusForbidden, resp.StatusCode)
	}

	// The host can remove any photo from their party.
	resp = env.do(t, http.MethodDelete, "/api/photos/"+itoa(photo.ID), hostToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d for host delete, got %d", http.StatusNoContent, resp.StatusCode)
	}
}

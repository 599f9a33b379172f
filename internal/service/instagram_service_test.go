package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreds() *models.Credentials {
	return &models.Credentials{
		AccessToken: "token",
		UserID:      "17800000000000000",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func newTestPublisher(baseURL string) Publisher {
	return NewInstagramPublisher(config.Config{
		GraphAPIBase:   baseURL,
		PublishTimeout: 5 * time.Second,
	})
}

func TestInstagramPublisher_Publish(t *testing.T) {
	var containerReq, publishReq map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/17800000000000000/media":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&containerReq))
			json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
		case "/17800000000000000/media_publish":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&publishReq))
			json.NewEncoder(w).Encode(map[string]string{"id": "ext-1"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := newTestPublisher(srv.URL)
	externalID, err := p.Publish(context.Background(), testCreds(), "https://example.com/a.jpg", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", externalID)

	assert.Equal(t, "https://example.com/a.jpg", containerReq["image_url"])
	assert.Equal(t, "hello", containerReq["caption"])
	assert.Equal(t, "token", containerReq["access_token"])

	assert.Equal(t, "container-1", publishReq["creation_id"])
	assert.Equal(t, "token", publishReq["access_token"])
}

func TestInstagramPublisher_ContainerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid image"}}`))
	}))
	defer srv.Close()

	p := newTestPublisher(srv.URL)
	_, err := p.Publish(context.Background(), testCreds(), "https://example.com/a.jpg", "hello")
	require.Error(t, err)

	var perr *PublishError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create media container", perr.Step)
	assert.Contains(t, err.Error(), "400")
}

func TestInstagramPublisher_PublishStepError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/17800000000000000/media" {
			json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestPublisher(srv.URL)
	_, err := p.Publish(context.Background(), testCreds(), "https://example.com/a.jpg", "hello")
	require.Error(t, err)

	var perr *PublishError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "publish media", perr.Step)
}

func TestInstagramPublisher_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	p := newTestPublisher(srv.URL)
	_, err := p.Publish(context.Background(), testCreds(), "https://example.com/a.jpg", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no media ID returned")
}

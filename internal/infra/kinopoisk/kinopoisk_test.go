package infra_kinopoisk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/kinokreker/core/internal/config"
	usecase_movie "github.com/kinokreker/core/internal/usecase/movie"
)

type KinopoiskClientSuite struct {
	suite.Suite
}

func newClient(baseURL string) *Client {
	return New(config.Kinopoisk{
		BaseURL: baseURL,
		Version: "v2.2",
		APIKey:  "test-key",
		Timeout: time.Second,
	})
}

func (suite *KinopoiskClientSuite) TestFilmByID(t provider.T) {
	t.Run("Should decode film payload", func(t provider.T) {
		var gotPath, gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("X-API-KEY")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"kinopoiskId": 435,
				"nameRu": "Зеленая миля",
				"year": 1999,
				"webUrl": "https://www.kinopoisk.ru/film/435/",
				"posterUrl": "https://example.com/posters/435.jpg",
				"posterUrlPreview": "https://example.com/posters/435_small.jpg"
			}`))
		}))
		defer server.Close()

		meta, err := newClient(server.URL).FilmByID(context.Background(), 435)

		assert.NoError(t, err)
		assert.Equal(t, "/v2.2/films/435", gotPath)
		assert.Equal(t, "test-key", gotKey)
		assert.Equal(t, int64(435), meta.KinopoiskID)
		assert.Equal(t, "Зеленая миля", meta.Title)
		assert.Equal(t, 1999, meta.Year)
		assert.Equal(t, "https://example.com/posters/435.jpg", meta.PosterURL)
		assert.Equal(t, "https://example.com/posters/435_small.jpg", meta.PosterPreview)
	})

	t.Run("Should map non-2xx status", func(t provider.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newClient(server.URL).FilmByID(context.Background(), 435)

		assert.ErrorIs(t, err, usecase_movie.ErrMetaStatus)
	})

	t.Run("Should map undecodable body", func(t provider.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		_, err := newClient(server.URL).FilmByID(context.Background(), 435)

		assert.ErrorIs(t, err, usecase_movie.ErrMetaBadPayload)
	})

	t.Run("Should map unreachable upstream", func(t provider.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := newClient(server.URL).FilmByID(context.Background(), 435)

		assert.ErrorIs(t, err, usecase_movie.ErrMetaUnavailable)
	})
}

func (suite *KinopoiskClientSuite) TestFetchImage(t provider.T) {
	t.Run("Should return raw image bytes", func(t provider.T) {
		content := []byte{0xFF, 0xD8, 0xFF, 0xE0}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(content)
		}))
		defer server.Close()

		got, err := newClient(server.URL).FetchImage(context.Background(), server.URL+"/img.jpg")

		assert.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("Should map non-2xx status", func(t provider.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newClient(server.URL).FetchImage(context.Background(), server.URL+"/img.jpg")

		assert.ErrorIs(t, err, usecase_movie.ErrMetaStatus)
	})
}

func TestKinopoiskClientSuite(t *testing.T) {
	suite.RunSuite(t, new(KinopoiskClientSuite))
}

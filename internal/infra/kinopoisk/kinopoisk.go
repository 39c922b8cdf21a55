package infra_kinopoisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kinokreker/core/internal/config"
	usecase_movie "github.com/kinokreker/core/internal/usecase/movie"
)

// Client talks to the Kinopoisk metadata API and fetches poster images.
// Failures map to the movie usecase sentinels: non-2xx responses to
// ErrMetaStatus, transport failures to ErrMetaUnavailable and undecodable
// bodies to ErrMetaBadPayload. Nothing is retried.
type Client struct {
	baseURL string
	version string
	apiKey  string
	http    *http.Client
}

func New(cfg config.Kinopoisk) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		version: cfg.Version,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type filmDTO struct {
	KinopoiskID      int64  `json:"kinopoiskId"`
	NameRu           string `json:"nameRu"`
	Year             int    `json:"year"`
	WebURL           string `json:"webUrl"`
	PosterURL        string `json:"posterUrl"`
	PosterURLPreview string `json:"posterUrlPreview"`
}

func (c *Client) FilmByID(ctx context.Context, filmID int64) (usecase_movie.FilmMeta, error) {
	url := fmt.Sprintf("%s/%s/films/%d", c.baseURL, c.version, filmID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return usecase_movie.FilmMeta{}, errors.Join(usecase_movie.ErrInternal, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return usecase_movie.FilmMeta{}, errors.Join(usecase_movie.ErrMetaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return usecase_movie.FilmMeta{}, fmt.Errorf("%w: status %d",
			usecase_movie.ErrMetaStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return usecase_movie.FilmMeta{}, errors.Join(usecase_movie.ErrMetaUnavailable, err)
	}

	var dto filmDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return usecase_movie.FilmMeta{}, errors.Join(usecase_movie.ErrMetaBadPayload, err)
	}

	return usecase_movie.FilmMeta{
		Title:         dto.NameRu,
		Year:          dto.Year,
		WebURL:        dto.WebURL,
		KinopoiskID:   dto.KinopoiskID,
		PosterURL:     dto.PosterURL,
		PosterPreview: dto.PosterURLPreview,
	}, nil
}

func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.Join(usecase_movie.ErrInternal, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(usecase_movie.ErrMetaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", usecase_movie.ErrMetaStatus, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(usecase_movie.ErrMetaUnavailable, err)
	}
	return content, nil
}

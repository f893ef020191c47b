// Package speech renders digest text to MP3 files.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	DefaultEndpoint = "https://translate.google.com/translate_tts"
	// MaxPieceLength is the longest text the endpoint accepts per request.
	MaxPieceLength = 100
	FileExtension  = ".mp3"
)

var (
	ErrEmptyText   = errors.New("no text to render")
	ErrInvalidName = errors.New("invalid audio file name")
)

type Renderer interface {
	Render(ctx context.Context, text, language string) (string, error)
}

// GoogleRenderer speaks text through the Google Translate TTS endpoint and
// writes the concatenated MP3 segments to a uniquely named file.
type GoogleRenderer struct {
	httpClient *http.Client
	endpoint   string
	audioDir   string
	userAgent  string
	timeout    time.Duration
}

func NewGoogleRenderer(httpClient *http.Client, endpoint, audioDir, userAgent string, timeout time.Duration) *GoogleRenderer {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleRenderer{
		httpClient: httpClient,
		endpoint:   endpoint,
		audioDir:   audioDir,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (r *GoogleRenderer) AudioDir() string {
	return r.audioDir
}

// Render returns the path of the written file. Nothing is left on disk when
// any segment fails.
func (r *GoogleRenderer) Render(ctx context.Context, text, language string) (string, error) {
	pieces := SplitText(text, MaxPieceLength)
	if len(pieces) == 0 {
		return "", ErrEmptyText
	}

	if err := os.MkdirAll(r.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	path := filepath.Join(r.audioDir, NewFileName())
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}

	if err := r.writeSegments(ctx, file, pieces, language); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close audio file: %w", err)
	}

	slog.Debug("Audio rendered", "file", filepath.Base(path), "language", language, "pieces", len(pieces))
	return path, nil
}

func (r *GoogleRenderer) writeSegments(ctx context.Context, w io.Writer, pieces []string, language string) error {
	for i, piece := range pieces {
		if err := r.fetchSegment(ctx, w, piece, language, i, len(pieces)); err != nil {
			return fmt.Errorf("failed to render segment %d of %d: %w", i+1, len(pieces), err)
		}
	}
	return nil
}

func (r *GoogleRenderer) fetchSegment(ctx context.Context, w io.Writer, piece, language string, idx, total int) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("q", piece)
	query.Set("tl", language)
	query.Set("client", "tw-ob")
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(piece)))

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, r.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	return nil
}

// NewFileName returns a fresh "<32 hex chars>.mp3" name.
func NewFileName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + FileExtension
}

// ResolveFile maps a served file name to its path inside dir, rejecting names
// that could escape it.
func ResolveFile(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return filepath.Join(dir, name), nil
}

// SplitText breaks text into pieces of at most maxLen characters at word
// boundaries. Words longer than maxLen are cut.
func SplitText(text string, maxLen int) []string {
	var pieces []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > maxLen {
			flush()
			runes := []rune(word)
			pieces = append(pieces, string(runes[:maxLen]))
			word = string(runes[maxLen:])
		}

		wordLen := utf8.RuneCountInString(word)
		if wordLen == 0 {
			continue
		}

		if currentLen > 0 && currentLen+1+wordLen > maxLen {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	flush()

	return pieces
}

package moss

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultServer = "moss.stanford.edu"
	DefaultPort   = 7690

	defaultMaxMatches = 10
	defaultShowCount  = 250
)

// Sentinel errors for package moss.
var (
	ErrNoUserID            = errors.New("no MOSS user id configured")
	ErrUnsupportedLanguage = errors.New("language not supported by MOSS")
	ErrLanguageRejected    = errors.New("MOSS server rejected the language")
)

type stagedFile struct {
	path        string
	displayName string
}

// Client accumulates source files for one MOSS query and submits them over
// the service's TCP protocol: an option preamble, a language handshake,
// numbered file uploads, then a single query that yields the report URL.
// Base files are uploaded with id 0 so the server discounts shared starter
// code; student files get ids starting at 1.
type Client struct {
	UserID string
	Server string
	Port   int

	language      string
	maxMatches    int
	showCount     int
	directoryMode int
	experimental  int
	comment       string

	files     []stagedFile
	baseFiles []stagedFile

	limiter *rate.Limiter
	logger  zerolog.Logger
}

// New returns a Client pointed at the public MOSS server. The language is
// normalized with NormalizeLanguage but not validated until Send.
func New(userID, language string, logger zerolog.Logger) *Client {
	return &Client{
		UserID:     userID,
		Server:     DefaultServer,
		Port:       DefaultPort,
		language:   NormalizeLanguage(language),
		maxMatches: defaultMaxMatches,
		showCount:  defaultShowCount,
		logger:     logger,
	}
}

// Language returns the normalized language this client submits as.
func (c *Client) Language() string { return c.language }

// SetDirectoryMode tells the server to treat each directory as one program,
// so files from the same student are not matched against each other.
func (c *Client) SetDirectoryMode(on bool) {
	c.directoryMode = 0
	if on {
		c.directoryMode = 1
	}
}

// SetExperimental opts in to the server's experimental matching algorithm.
func (c *Client) SetExperimental(on bool) {
	c.experimental = 0
	if on {
		c.experimental = 1
	}
}

// SetMaxMatches sets how many times a passage may appear across submissions
// before the server ignores it as boilerplate.
func (c *Client) SetMaxMatches(n int) { c.maxMatches = n }

// SetShowCount sets how many matches the report lists.
func (c *Client) SetShowCount(n int) { c.showCount = n }

// SetComment sets the comment string shown at the top of the hosted report.
func (c *Client) SetComment(s string) { c.comment = s }

// SetUploadLimit throttles file uploads to filesPerSecond. Zero or negative
// removes the limit.
func (c *Client) SetUploadLimit(filesPerSecond float64) {
	c.limiter = nil
	if filesPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(filesPerSecond), 1)
	}
}

// AddFile stages a student file for upload.
func (c *Client) AddFile(path string) {
	c.files = append(c.files, stagedFile{path: path, displayName: displayName(path)})
}

// AddBaseFile stages an instructor-provided base file (starter code). Base
// files are excluded from match results.
func (c *Client) AddBaseFile(path string) {
	c.baseFiles = append(c.baseFiles, stagedFile{path: path, displayName: displayName(path)})
}

// FileCount returns the number of staged student files.
func (c *Client) FileCount() int { return len(c.files) }

// The server tokenizes its protocol on whitespace, so display names must not
// contain spaces.
func displayName(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), " ", "_")
}

// Send uploads every staged file and returns the hosted report URL.
// It fails before dialing when the user id is missing or the language is not
// in the supported set, and aborts before any upload when the server answers
// "no" to the language handshake.
func (c *Client) Send(ctx context.Context) (string, error) {
	if c.UserID == "" {
		return "", ErrNoUserID
	}
	if !IsSupported(c.language) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, c.language)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(c.Server, strconv.Itoa(c.Port)))
	if err != nil {
		return "", fmt.Errorf("dial MOSS server: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	w := bufio.NewWriter(conn)
	r := bufio.NewReader(conn)

	fmt.Fprintf(w, "moss %s\n", c.UserID)
	fmt.Fprintf(w, "directory %d\n", c.directoryMode)
	fmt.Fprintf(w, "X %d\n", c.experimental)
	fmt.Fprintf(w, "maxmatches %d\n", c.maxMatches)
	fmt.Fprintf(w, "show %d\n", c.showCount)
	fmt.Fprintf(w, "language %s\n", c.language)
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("send preamble: %w", err)
	}

	answer, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read language handshake: %w", err)
	}
	if strings.TrimSpace(answer) == "no" {
		fmt.Fprint(w, "end\n")
		w.Flush()
		return "", fmt.Errorf("%w: %s", ErrLanguageRejected, c.language)
	}

	for _, f := range c.baseFiles {
		if err := c.uploadFile(ctx, w, 0, f); err != nil {
			return "", err
		}
	}
	for i, f := range c.files {
		if err := c.uploadFile(ctx, w, i+1, f); err != nil {
			return "", err
		}
	}

	fmt.Fprintf(w, "query 0 %s\n", c.comment)
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("send query: %w", err)
	}

	c.logger.Info().Int("files", len(c.files)).Msg("Query sent, waiting for report URL")

	response, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read report URL: %w", err)
	}

	fmt.Fprint(w, "end\n")
	w.Flush()

	url := strings.TrimSpace(response)
	if !strings.HasPrefix(url, "http") {
		return "", fmt.Errorf("unexpected response from MOSS server: %q", url)
	}
	return url, nil
}

func (c *Client) uploadFile(ctx context.Context, w *bufio.Writer, id int, f stagedFile) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	content, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	c.logger.Debug().
		Int("id", id).
		Str("file", f.displayName).
		Int("bytes", len(content)).
		Msg("Uploading")
	fmt.Fprintf(w, "file %d %s %d %s\n", id, c.language, len(content), f.displayName)
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("upload %s: %w", f.displayName, err)
	}
	return w.Flush()
}

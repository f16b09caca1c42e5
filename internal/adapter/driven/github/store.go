// Package github implements the BinStore port on top of the GitHub contents
// API using the go-github library. The whole collection lives in one JSON
// file on a branch; every write is a commit guarded by the file's blob SHA.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/binvault/internal/adapter/driven/bincodec"
	"github.com/ericfisherdev/binvault/internal/domain/model"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BinStore = (*Store)(nil)

// Location identifies the file that holds the collection.
type Location struct {
	Repo   string // "owner/repo"
	Branch string
	Path   string
}

// Snapshot is the collection as last read from GitHub together with the blob
// SHA that a subsequent commit must present.
type Snapshot struct {
	Revision string
	Bins     []model.Bin

	collection *bincodec.Collection
}

// Store implements driven.BinStore against a file in a GitHub repository.
type Store struct {
	gh     *gh.Client
	owner  string
	repo   string
	branch string
	path   string
	logger *slog.Logger
}

// NewStore creates a GitHub-backed store authenticated with token.
func NewStore(token string, loc Location, logger *slog.Logger) (*Store, error) {
	client := gh.NewClient(newHTTPClient(nil)).WithAuthToken(token)
	return newStore(client, loc, logger)
}

// NewStoreWithTransport creates a Store that sends requests through the same
// caching and rate-limit stack as NewStore, with base as the innermost
// transport. This constructor is intended for testing.
func NewStoreWithTransport(base http.RoundTripper, baseURL string, loc Location, logger *slog.Logger) (*Store, error) {
	return NewStoreWithHTTPClient(newHTTPClient(base), baseURL, loc, logger)
}

// NewStoreWithHTTPClient creates a Store with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewStoreWithHTTPClient(httpClient *http.Client, baseURL string, loc Location, logger *slog.Logger) (*Store, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return newStore(client, loc, logger)
}

func newStore(client *gh.Client, loc Location, logger *slog.Logger) (*Store, error) {
	owner, repo, err := splitRepo(loc.Repo)
	if err != nil {
		return nil, err
	}
	if loc.Branch == "" {
		loc.Branch = "main"
	}
	if loc.Path == "" {
		loc.Path = "bins.json"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		gh:     client,
		owner:  owner,
		repo:   repo,
		branch: loc.Branch,
		path:   loc.Path,
		logger: logger,
	}, nil
}

// Name identifies the backend in logs and metrics.
func (s *Store) Name() string { return "github" }

// FetchCurrent reads the collection file at the configured branch. It returns
// (nil, nil) when the file does not exist or cannot be read for any reason:
// callers treat that as an empty collection. Non-404 failures are logged
// because they are indistinguishable from "not found" to the caller.
// Content that is readable but not a JSON array of bins wraps
// driven.ErrCorruptStore.
func (s *Store) FetchCurrent(ctx context.Context) (*Snapshot, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: s.branch}

	file, _, resp, err := s.gh.Repositories.GetContents(ctx, s.owner, s.repo, s.path, opts)
	if err != nil {
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			s.logger.Warn("github read failed, treating collection as absent",
				"repo", s.owner+"/"+s.repo,
				"path", s.path,
				"branch", s.branch,
				"error", err,
			)
		}
		return nil, nil
	}

	logRateLimit(s.logger, resp, s.path)

	if file == nil {
		s.logger.Warn("github path is not a file, treating collection as absent", "path", s.path)
		return nil, nil
	}

	raw, err := s.fileContent(ctx, file)
	if err != nil {
		s.logger.Warn("github content could not be read, treating collection as absent",
			"path", s.path,
			"encoding", file.GetEncoding(),
			"error", err,
		)
		return nil, nil
	}

	c, err := bincodec.Decode(raw, s.path)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Revision: file.GetSHA(), Bins: c.Bins(), collection: c}, nil
}

// fileContent returns the file body. The contents API only inlines files up to
// 1 MB; larger files come back with encoding "none" and are read as a blob.
func (s *Store) fileContent(ctx context.Context, file *gh.RepositoryContent) ([]byte, error) {
	if file.GetEncoding() != "none" {
		content, err := file.GetContent()
		if err != nil {
			return nil, err
		}
		return []byte(content), nil
	}

	data, resp, err := s.gh.Git.GetBlobRaw(ctx, s.owner, s.repo, file.GetSHA())
	if err != nil {
		return nil, fmt.Errorf("fetch blob %s: %w", file.GetSHA(), err)
	}
	logRateLimit(s.logger, resp, "git/blobs")

	return data, nil
}

// Commit writes bins as the new file content. revision must be the blob SHA
// from the most recent FetchCurrent, or "" when the file has never existed.
// GitHub rejects a stale or missing SHA; that rejection wraps
// driven.ErrConflict. The new blob SHA is returned.
func (s *Store) Commit(ctx context.Context, bins []model.Bin, revision string) (string, error) {
	data, err := bincodec.Encode(bins)
	if err != nil {
		return "", err
	}
	return s.commitData(ctx, data, revision)
}

// commitData writes data as the new file content guarded by revision.
func (s *Store) commitData(ctx context.Context, data []byte, revision string) (string, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(fmt.Sprintf("Update %s via API", s.path)),
		Content: data,
		Branch:  gh.Ptr(s.branch),
	}

	var (
		result *gh.RepositoryContentResponse
		resp   *gh.Response
		err    error
	)
	if revision == "" {
		result, resp, err = s.gh.Repositories.CreateFile(ctx, s.owner, s.repo, s.path, opts)
	} else {
		opts.SHA = gh.Ptr(revision)
		result, resp, err = s.gh.Repositories.UpdateFile(ctx, s.owner, s.repo, s.path, opts)
	}
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && isConflictStatus(ghErr.Response.StatusCode) {
			return "", fmt.Errorf("%w: %s changed since revision %q: %v", driven.ErrConflict, s.path, revision, err)
		}
		return "", fmt.Errorf("committing %s to %s/%s@%s: %w", s.path, s.owner, s.repo, s.branch, err)
	}

	logRateLimit(s.logger, resp, s.path)

	if result == nil || result.Content == nil {
		return "", nil
	}
	return result.Content.GetSHA(), nil
}

// List returns the stored bins, or an empty slice when the file is absent.
func (s *Store) List(ctx context.Context) ([]model.Bin, error) {
	snap, err := s.FetchCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return []model.Bin{}, nil
	}
	return snap.Bins, nil
}

// Append performs fetch, append, commit. It is not atomic: when another
// writer commits between the fetch and the commit, the commit fails with
// driven.ErrConflict and the bin is not stored. No retry is attempted.
func (s *Store) Append(ctx context.Context, bin model.Bin) error {
	snap, err := s.FetchCurrent(ctx)
	if err != nil {
		return err
	}

	c, revision := emptyCollection(), ""
	if snap != nil {
		c, revision = snap.collection, snap.Revision
	}
	if err := c.Append(bin); err != nil {
		return err
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}

	newRevision, err := s.commitData(ctx, data, revision)
	if err != nil {
		return err
	}

	s.logger.Debug("bin committed to github",
		"id", bin.ID,
		"path", s.path,
		"previous_revision", revision,
		"revision", newRevision,
	)

	return nil
}

// isConflictStatus reports whether GitHub rejected a contents write because
// the supplied SHA did not match (409) or was required but missing (422).
func isConflictStatus(status int) bool {
	return status == http.StatusConflict || status == http.StatusUnprocessableEntity
}

func emptyCollection() *bincodec.Collection {
	c, _ := bincodec.Decode(nil, "")
	return c
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(logger *slog.Logger, resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	logger.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		logger.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

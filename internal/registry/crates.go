package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "cratemap/internal/core/errors"
	"cratemap/internal/shared/observability"
	"cratemap/internal/shared/util"
)

const defaultUserAgent = "cratemap/1.0 (dependency analysis)"

// CratesFetcher resolves direct dependencies against a crates.io style
// registry: one call for crate metadata to learn the latest version, one call
// for that version's dependency list. No retries; each failure maps to a
// NOT_FOUND, NETWORK or FORMAT error.
type CratesFetcher struct {
	baseURL   string
	client    *http.Client
	limiter   *util.Limiter
	userAgent string
}

type CratesOption func(*CratesFetcher)

func WithHTTPClient(client *http.Client) CratesOption {
	return func(f *CratesFetcher) { f.client = client }
}

func WithLimiter(l *util.Limiter) CratesOption {
	return func(f *CratesFetcher) { f.limiter = l }
}

func WithUserAgent(ua string) CratesOption {
	return func(f *CratesFetcher) { f.userAgent = ua }
}

func NewCratesFetcher(baseURL string, timeout time.Duration, opts ...CratesOption) *CratesFetcher {
	f := &CratesFetcher{
		baseURL:   trimSlash(baseURL),
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type crateResponse struct {
	Crate *struct {
		MaxVersion string `json:"max_version"`
	} `json:"crate"`
}

type dependenciesResponse struct {
	Dependencies *[]struct {
		CrateID string `json:"crate_id"`
	} `json:"dependencies"`
}

// DependenciesOf returns the crate's direct dependencies for its latest
// version, in registry order, with any self-dependency removed.
func (f *CratesFetcher) DependenciesOf(ctx context.Context, name string) (deps []string, err error) {
	ctx, span := observability.Tracer.Start(ctx, "registry.DependenciesOf",
		trace.WithAttributes(attribute.String("crate", name)))
	defer span.End()

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			observability.FetchErrorsTotal.WithLabelValues(string(apperrors.CodeOf(err))).Inc()
		}
		observability.FetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	if f.limiter != nil {
		if werr := f.limiter.Wait(ctx); werr != nil {
			return nil, apperrors.Wrap(werr, apperrors.CodeNetwork, "rate limiter interrupted")
		}
	}

	version, err := f.latestVersion(ctx, name)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("version", version))

	return f.versionDependencies(ctx, name, version)
}

func (f *CratesFetcher) latestVersion(ctx context.Context, name string) (string, error) {
	u := fmt.Sprintf("%s/api/v1/crates/%s", f.baseURL, url.PathEscape(name))

	var payload crateResponse
	if err := f.getJSON(ctx, u, name, &payload); err != nil {
		return "", err
	}
	// An unknown crate and metadata without a latest version are the same
	// failure to the caller: there is nothing to resolve.
	if payload.Crate == nil || payload.Crate.MaxVersion == "" {
		return "", apperrors.Newf(apperrors.CodeNotFound, "crate metadata for %q has no max_version", name)
	}
	return payload.Crate.MaxVersion, nil
}

func (f *CratesFetcher) versionDependencies(ctx context.Context, name, version string) ([]string, error) {
	u := fmt.Sprintf("%s/api/v1/crates/%s/%s/dependencies", f.baseURL, url.PathEscape(name), url.PathEscape(version))

	var payload dependenciesResponse
	if err := f.getJSON(ctx, u, name, &payload); err != nil {
		return nil, apperrors.AddContext(err, apperrors.CtxVersion, version)
	}
	if payload.Dependencies == nil {
		return nil, apperrors.Newf(apperrors.CodeFormat, "dependency list for %q %s is missing", name, version)
	}

	names := make([]string, 0, len(*payload.Dependencies))
	for _, dep := range *payload.Dependencies {
		// The registry occasionally lists a crate as its own dependency.
		if dep.CrateID == name {
			continue
		}
		names = append(names, dep.CrateID)
	}
	return names, nil
}

func (f *CratesFetcher) getJSON(ctx context.Context, u, name string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "build request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return apperrors.AddContext(
			apperrors.Wrap(err, apperrors.CodeNetwork, "registry request failed"),
			apperrors.CtxURL, u)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.Newf(apperrors.CodeNotFound, "crate %q not found", name)
	case resp.StatusCode != http.StatusOK:
		return apperrors.Newf(apperrors.CodeNetwork, "registry returned HTTP %d for %q", resp.StatusCode, name)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeFormat, "invalid JSON from registry")
	}
	return nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

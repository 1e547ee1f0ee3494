package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobfinder-engine/internal/digest"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/scheduler"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/sheet"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the errors into one error, or nil when there are none.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy of cfg along with everything
// wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	trimCompanies := func(name string, cos []Company) []Company {
		seen := map[string]bool{}
		var ys []Company
		for i, c := range cos {
			c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
			c.Name = strings.TrimSpace(c.Name)
			if c.Slug == "" {
				res.addErr("%s[%d].slug is required", name, i)
				continue
			}
			if seen[c.Slug] {
				res.addWarn("%s lists %q more than once", name, c.Slug)
				continue
			}
			seen[c.Slug] = true
			ys = append(ys, c)
		}
		return ys
	}

	out.Sources.Lever.Companies = trimCompanies("sources.lever.companies", out.Sources.Lever.Companies)
	out.Sources.Greenhouse.Companies = trimCompanies("sources.greenhouse.companies", out.Sources.Greenhouse.Companies)
	out.Sources.SmartRecruiters.Companies = trimCompanies("sources.smartrecruiters.companies", out.Sources.SmartRecruiters.Companies)
	out.Sources.Workday.Sites = trimSites(&res, out.Sources.Workday.Sites)
	out.Digest.Search.JobTypes = trimList(out.Digest.Search.JobTypes)
	out.Sheet.Search.JobTypes = trimList(out.Sheet.Search.JobTypes)
	out.Digest.To = strings.TrimSpace(out.Digest.To)

	// ---- app ----
	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	switch strings.ToLower(out.App.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		res.addErr("app.log_level must be debug, info, warn or error")
	}

	// ---- search ----
	if out.Search.ProviderTimeoutSeconds <= 0 {
		res.addErr("search.provider_timeout_seconds must be > 0")
	} else if out.Search.ProviderTimeoutSeconds > 120 {
		res.addWarn("search.provider_timeout_seconds is very high (%d); a stuck provider will hold every search that long.", out.Search.ProviderTimeoutSeconds)
	}
	if out.Search.RateLimitPerSecond <= 0 {
		res.addErr("search.rate_limit_per_second must be > 0")
	}
	if out.Search.RateBurst <= 0 {
		res.addErr("search.rate_burst must be > 0")
	}
	if mode, err := filter.ParseLocationMode(out.Search.LocationMode); err != nil {
		res.addErr("search.location_mode: %v", err)
	} else {
		out.Search.LocationMode = string(mode)
	}
	if order, err := filter.ParseSortOrder(out.Search.SortBy); err != nil {
		res.addErr("search.sort_by: %v", err)
	} else {
		out.Search.SortBy = string(order)
	}
	if out.Search.MaxResults == 0 {
		out.Search.MaxResults = filter.DefaultLimit
	}
	if !filter.ValidLimit(out.Search.MaxResults) {
		res.addErr("search.max_results must be one of %v", filter.ResultLimits)
	}
	out.Search.DatePosted = strings.ToLower(strings.TrimSpace(out.Search.DatePosted))
	if out.Search.DatePosted == "" {
		out.Search.DatePosted = "all"
	}

	if len(out.Search.Buckets) == 0 {
		res.addErr("search.buckets must have at least 1 job type")
	}
	out.Search.Buckets = append([]search.Bucket(nil), cfg.Search.Buckets...)
	seenBucket := map[string]bool{}
	for i, b := range out.Search.Buckets {
		b.Name = strings.TrimSpace(b.Name)
		b.Terms = strings.TrimSpace(b.Terms)
		out.Search.Buckets[i] = b
		if b.Name == "" {
			res.addErr("search.buckets[%d].name is required", i)
			continue
		}
		key := strings.ToLower(b.Name)
		if seenBucket[key] {
			res.addErr("search.buckets[%d].name %q is duplicated", i, b.Name)
		}
		seenBucket[key] = true
		if b.Terms == "" {
			res.addWarn("search.buckets[%d] (%s) has no terms; it searches the bare keyword.", i, b.Name)
		}
	}

	// ---- sources ----
	src := out.Sources
	if !src.JSearch.Enabled && !src.Lever.Enabled && !src.Greenhouse.Enabled &&
		!src.SmartRecruiters.Enabled && !src.Workday.Enabled {
		res.addErr("No sources enabled: enable JSearch or one of the job boards")
	}
	if out.Sources.Lever.Enabled && len(out.Sources.Lever.Companies) == 0 {
		res.addWarn("sources.lever is enabled but has no companies.")
	}
	if out.Sources.Greenhouse.Enabled && len(out.Sources.Greenhouse.Companies) == 0 {
		res.addWarn("sources.greenhouse is enabled but has no companies.")
	}
	if src.SmartRecruiters.Enabled && len(src.SmartRecruiters.Companies) == 0 {
		res.addWarn("sources.smartrecruiters is enabled but has no companies.")
	}
	if src.Workday.Enabled && len(src.Workday.Sites) == 0 {
		res.addWarn("sources.workday is enabled but has no sites.")
	}
	if out.Sources.Greenhouse.MaxJobs < 0 {
		res.addErr("sources.greenhouse.max_jobs must be >= 0")
	}

	// ---- categories ----
	if _, err := out.Table(); err != nil {
		res.addErr("categories: %v", err)
	}

	// ---- digest ----
	if out.Digest.Enabled {
		if out.Digest.To == "" {
			res.addErr("digest.to is required when digest.enabled=true")
		} else if !digest.ValidEmail(out.Digest.To) {
			res.addErr("digest.to %q is not a valid email address", out.Digest.To)
		}
		sub := digest.Subscription{Frequency: out.Digest.Frequency, At: out.Digest.At, Spec: out.Digest.Spec}
		if spec, err := sub.CronSpec(); err != nil {
			res.addErr("digest schedule: %v", err)
		} else if err := scheduler.Validate(spec); err != nil {
			res.addErr("digest.spec %q: %v", spec, err)
		}
		checkSaved(&res, "digest.search", out.Digest.Search, out.Search.Buckets)
		if out.Digest.Archive.Enabled && strings.TrimSpace(out.Digest.Archive.IMAPAddr) == "" {
			res.addErr("digest.archive.imap_addr is required when digest.archive.enabled=true")
		}
	}

	// ---- sheet ----
	switch strings.ToLower(strings.TrimSpace(out.Sheet.Sink)) {
	case "", "airtable":
		out.Sheet.Sink = "airtable"
	case "sqlite":
		out.Sheet.Sink = "sqlite"
	default:
		res.addErr("sheet.sink must be airtable or sqlite")
	}
	if _, err := sheet.ParseKey(out.Sheet.Key); err != nil {
		res.addErr("sheet.key: %v", err)
	}
	if _, err := sheet.ParseSince(out.Sheet.Since, time.Now()); err != nil {
		res.addErr("sheet.since: %v", err)
	}
	if out.Sheet.Limit < 0 {
		res.addErr("sheet.limit must be >= 0")
	}
	out.Sheet.Spec = strings.TrimSpace(out.Sheet.Spec)
	if out.Sheet.Spec != "" {
		if err := scheduler.Validate(out.Sheet.Spec); err != nil {
			res.addErr("sheet.spec: %v", err)
		}
	}
	checkSaved(&res, "sheet.search", out.Sheet.Search, out.Search.Buckets)

	return out, res
}

func checkSaved(res *Validation, name string, s SavedSearch, buckets []search.Bucket) {
	if _, err := s.Request().Validate(buckets); err != nil {
		res.addErr("%s: %v", name, err)
	}
}

func trimSites(res *Validation, sites []WorkdaySite) []WorkdaySite {
	seen := map[string]bool{}
	var out []WorkdaySite
	for i, s := range sites {
		s.URL = strings.TrimRight(strings.TrimSpace(s.URL), "/")
		s.Name = strings.TrimSpace(s.Name)
		u, err := url.Parse(s.URL)
		if s.URL == "" || err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			res.addErr("sources.workday.sites[%d].url must be an http(s) career site URL", i)
			continue
		}
		key := strings.ToLower(s.URL)
		if seen[key] {
			res.addWarn("sources.workday.sites lists %q more than once", s.URL)
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

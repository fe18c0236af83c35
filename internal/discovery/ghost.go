package discovery

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mhe931/jobflow/internal/cache"
	"github.com/mhe931/jobflow/internal/fetch"
	"github.com/mhe931/jobflow/internal/types"
)

// MaxPostingAgeDays is the posting age beyond which a listing is flagged as a
// likely ghost job: still advertised, probably no longer hiring.
const MaxPostingAgeDays = 60

// reachabilityConcurrency bounds parallel HEAD probes per discovery run.
const reachabilityConcurrency = 8

// scamDomains are hosts known for fake listings harvested from user reports.
var scamDomains = map[string]bool{
	"jobs-hiring-now.example":  true,
	"quick-hire-remote.net":    true,
	"instant-offer-jobs.com":   true,
	"work-from-home-today.biz": true,
}

// hasScamDomain reports whether the posting URL belongs to a known scam host.
func hasScamDomain(postingURL string) bool {
	parsed, err := url.Parse(postingURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))
	return scamDomains[host]
}

// checkReachable consults the cache before probing, and caches the verdict.
func checkReachable(ctx context.Context, c *cache.Cache, postingURL string) bool {
	if verdict, ok := c.GetReachability(ctx, postingURL); ok {
		return verdict
	}
	reachable := fetch.Reachable(ctx, postingURL, fetch.DefaultReachabilityTimeout)
	c.SetReachability(ctx, postingURL, reachable)
	return reachable
}

// flagGhostJobs marks likely ghost jobs in place. Age and scam-domain checks
// are local; URL reachability is probed concurrently with a bounded fan-out.
// A probe failure only flags the record, it never fails the run.
func flagGhostJobs(ctx context.Context, c *cache.Cache, results []types.ResultRecord, ages []int) {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reachabilityConcurrency)

	for i := range results {
		if ages[i] > MaxPostingAgeDays || hasScamDomain(results[i].URL) {
			results[i].GhostJob = true
			continue
		}

		g.Go(func() error {
			reachable := checkReachable(gctx, c, results[i].URL)
			if !reachable {
				mu.Lock()
				results[i].GhostJob = true
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()
}

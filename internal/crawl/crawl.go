// Package crawl orchestrates the talk-page crawl pipeline: category listing,
// archive discovery, page content fetching, parsing, and graph assembly.
package crawl

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wikitalk/crawler/pkg/client"
	"github.com/wikitalk/crawler/pkg/fetch"
	"github.com/wikitalk/crawler/pkg/graph"
	"github.com/wikitalk/crawler/pkg/parse"
	"github.com/wikitalk/crawler/pkg/wikiapi"
)

// Config holds crawl pipeline configuration.
type Config struct {
	// BaseURL is the wiki action API endpoint.
	BaseURL string

	// Categories are the category titles whose talk pages get crawled.
	Categories []string

	// Scheduler configures the fetch engine.
	Scheduler fetch.Config

	// PageBatchSize is the number of titles per content request.
	PageBatchSize int
}

// DefaultConfig returns a crawl configuration against English Wikipedia.
func DefaultConfig(categories []string) Config {
	return Config{
		BaseURL:       wikiapi.DefaultBaseURL,
		Categories:    categories,
		Scheduler:     fetch.DefaultConfig(),
		PageBatchSize: wikiapi.PageBatchSize,
	}
}

// Info summarizes one crawl run.
type Info struct {
	TalkTitles    []string
	ArchiveTitles []string
	ExistingPages int
	UserEdges     int
	Failed        int
}

// Crawler drives the pipeline on top of the fetch engine.
type Crawler struct {
	scheduler *fetch.Scheduler
	config    Config
	logger    zerolog.Logger
}

// New creates a crawler.
func New(c *client.Client, cfg Config) *Crawler {
	if cfg.BaseURL == "" {
		cfg.BaseURL = wikiapi.DefaultBaseURL
	}
	if cfg.PageBatchSize <= 0 {
		cfg.PageBatchSize = wikiapi.PageBatchSize
	}

	return &Crawler{
		scheduler: fetch.NewScheduler(c, cfg.Scheduler),
		config:    cfg,
		logger:    log.With().Str("component", "crawl").Logger(),
	}
}

// StageProgress builds a per-descriptor completion callback for a pipeline
// stage of the given size. Either the factory or its result may be nil.
type StageProgress func(stage string, total int) fetch.Progress

// Run executes the full pipeline and returns the page graph. Per-descriptor
// failures are counted and skipped; only cancellation aborts the run.
func (c *Crawler) Run(ctx context.Context, progress StageProgress) (*graph.Graph, *Info, error) {
	start := time.Now()
	info := &Info{}

	// Stage 1: talk pages in each category
	talkTitles, err := c.fetchCategoryMembers(ctx, progress, info)
	if err != nil {
		return nil, nil, err
	}
	info.TalkTitles = talkTitles

	// Stage 2: archive pages of each talk page
	archiveTitles, err := c.fetchArchiveTitles(ctx, talkTitles, progress, info)
	if err != nil {
		return nil, nil, err
	}
	info.ArchiveTitles = archiveTitles

	// Stage 3: talk and archive page content, parsed for User: links
	allTitles := append(append([]string{}, talkTitles...), archiveTitles...)
	talkData, err := c.fetchTalkData(ctx, allTitles, progress, info)
	if err != nil {
		return nil, nil, err
	}

	// Stage 4: article pages corresponding to the talk pages
	wikiTitles := make([]string, len(talkTitles))
	for i, title := range talkTitles {
		wikiTitles[i] = parse.StripTalkPrefix(title)
	}
	info.ExistingPages, err = c.countExistingPages(ctx, wikiTitles, progress, info)
	if err != nil {
		return nil, nil, err
	}

	// Stage 5: graph assembly
	g, userEdges := graph.Build(talkTitles, wikiTitles, talkData)
	info.UserEdges = userEdges

	c.logger.Info().
		Int("talk_titles", len(talkTitles)).
		Int("archive_titles", len(archiveTitles)).
		Int("nodes", g.NodeCount()).
		Int("edges", g.EdgeCount()).
		Int("user_edges", userEdges).
		Int("failed", info.Failed).
		Dur("duration", time.Since(start)).
		Msg("Crawl complete")

	return g, info, nil
}

// fetchCategoryMembers resolves every configured category to its talk page titles.
func (c *Crawler) fetchCategoryMembers(ctx context.Context, progress StageProgress, info *Info) ([]string, error) {
	descs := make([]fetch.Descriptor, 0, len(c.config.Categories))
	for _, category := range c.config.Categories {
		descs = append(descs, wikiapi.CategoryMembersQuery(c.config.BaseURL, category, wikiapi.NamespaceTalk))
	}

	c.logger.Info().Int("categories", len(descs)).Msg("Fetching category members")

	results, err := c.scheduler.Fetch(ctx, descs, wikiapi.CategoryMembersHandler{}, stageCallback(progress, "categories", len(descs)))
	if err != nil {
		return nil, err
	}
	info.Failed += len(results.Failed)

	var titles []string
	for _, value := range results.Ordered {
		members, ok := value.([]any)
		if !ok {
			continue
		}
		for _, m := range members {
			entry, ok := m.(map[string]any)
			if !ok {
				continue
			}
			if title, ok := entry["title"].(string); ok {
				titles = append(titles, title)
			}
		}
	}

	return titles, nil
}

// fetchArchiveTitles finds the "<page>/Archive" series of every talk page.
func (c *Crawler) fetchArchiveTitles(ctx context.Context, talkTitles []string, progress StageProgress, info *Info) ([]string, error) {
	descs := make([]fetch.Descriptor, 0, len(talkTitles))
	for _, title := range talkTitles {
		prefix := parse.StripTalkPrefix(title) + "/Archive"
		descs = append(descs, wikiapi.AllPagesPrefixQuery(c.config.BaseURL, prefix, wikiapi.NamespaceTalk))
	}

	c.logger.Info().Int("pages", len(descs)).Msg("Fetching archive titles")

	results, err := c.scheduler.Fetch(ctx, descs, wikiapi.AllPagesHandler{}, stageCallback(progress, "archives", len(descs)))
	if err != nil {
		return nil, err
	}
	info.Failed += len(results.Failed)

	var titles []string
	for _, value := range results.Ordered {
		entries, ok := value.([]any)
		if !ok {
			continue
		}
		for _, e := range entries {
			if title, ok := e.(string); ok {
				titles = append(titles, title)
			}
		}
	}

	return titles, nil
}

// fetchTalkData fetches and parses the content of talk and archive pages.
func (c *Crawler) fetchTalkData(ctx context.Context, titles []string, progress StageProgress, info *Info) ([]*parse.TalkPage, error) {
	pages, err := c.fetchPages(ctx, "talk pages", titles, progress, info)
	if err != nil {
		return nil, err
	}

	var talkData []*parse.TalkPage
	for _, page := range pages {
		if parsed, ok := parse.ParseTalkPage(page); ok {
			talkData = append(talkData, parsed)
		}
	}

	return talkData, nil
}

// countExistingPages fetches article content batches and counts the pages
// that exist.
func (c *Crawler) countExistingPages(ctx context.Context, titles []string, progress StageProgress, info *Info) (int, error) {
	pages, err := c.fetchPages(ctx, "wiki pages", titles, progress, info)
	if err != nil {
		return 0, err
	}

	existing := 0
	for _, page := range pages {
		if _, ok := parse.ParseWikiPage(page); ok {
			existing++
		}
	}

	return existing, nil
}

// fetchPages fetches content for titles in batches and flattens the page
// objects of every batch.
func (c *Crawler) fetchPages(ctx context.Context, stage string, titles []string, progress StageProgress, info *Info) ([]map[string]any, error) {
	batches := wikiapi.Chunk(titles, c.config.PageBatchSize)

	descs := make([]fetch.Descriptor, 0, len(batches))
	for _, batch := range batches {
		descs = append(descs, wikiapi.PageContentQuery(c.config.BaseURL, batch))
	}

	c.logger.Info().
		Int("titles", len(titles)).
		Int("batches", len(descs)).
		Msg("Fetching page content")

	results, err := c.scheduler.Fetch(ctx, descs, wikiapi.RevisionsHandler{}, stageCallback(progress, stage, len(descs)))
	if err != nil {
		return nil, err
	}
	info.Failed += len(results.Failed)

	var pages []map[string]any
	for _, value := range results.Ordered {
		mapping, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for _, p := range mapping {
			if page, ok := p.(map[string]any); ok {
				pages = append(pages, page)
			}
		}
	}

	return pages, nil
}

// stageCallback resolves the factory for one stage.
func stageCallback(progress StageProgress, stage string, total int) fetch.Progress {
	if progress == nil {
		return nil
	}
	return progress(stage, total)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"blogsmith/internal/config"
	"blogsmith/internal/genapi"
	"blogsmith/internal/imagestore"
	"blogsmith/internal/llmclient"
	"blogsmith/internal/pipeline"
	"blogsmith/internal/publish"
	"blogsmith/internal/store"
)

func main() {
	mode := flag.String("mode", "step", "run mode: step, lucky, series, clients, add-client, or rm-client")
	clientID := flag.String("client", "", "client id to generate for")
	until := flag.String("until", "publish", "step mode: last stage to run (topic, plan, outline, content, images, publish)")
	draft := flag.Bool("draft", false, "step mode: save the post as a draft instead of publishing")
	intervals := flag.String("intervals", "", "series mode: comma-separated day offsets, e.g. 6,12,18")
	name := flag.String("name", "", "add-client: display name")
	siteURL := flag.String("url", "", "add-client: website url")
	sitemap := flag.String("sitemap", "", "add-client: sitemap url")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()
	clients := store.NewCached(st, 128, 5*time.Minute)

	switch *mode {
	case "clients":
		listClients(ctx, clients)
		return
	case "add-client":
		addClient(ctx, clients, *clientID, *name, *siteURL, *sitemap)
		return
	case "rm-client":
		removeClient(ctx, clients, *clientID)
		return
	}

	if *clientID == "" {
		log.Fatalf("-client is required")
	}
	client, err := clients.GetClient(ctx, *clientID)
	if err != nil {
		log.Fatalf("load client %s: %v", *clientID, err)
	}
	site := genapi.Site{
		ID:         client.ID,
		Name:       client.Name,
		WebsiteURL: client.WebsiteURL,
		SitemapURL: client.SitemapURL,
	}

	llm, err := buildLLM(ctx, cfg)
	if err != nil {
		log.Fatalf("init llm: %v", err)
	}
	defer llm.Close()
	gen := genapi.New(llm)

	pub := publish.NewWordPress(client.WebsiteURL, cfg.WordPress.User, cfg.WordPress.AppPassword)

	var images pipeline.ImageSink
	if cfg.Images.Enabled {
		s3, err := imagestore.New(imagestore.Config{
			Endpoint:  cfg.Images.Endpoint,
			Region:    cfg.Images.Region,
			AccessKey: cfg.Images.AccessKey,
			SecretKey: cfg.Images.SecretKey,
			Bucket:    cfg.Images.Bucket,
			UseSSL:    cfg.Images.UseSSL,
		})
		if err != nil {
			log.Fatalf("init image store: %v", err)
		}
		images = s3
	}

	var guard pipeline.Guard

	switch *mode {
	case "step":
		runStep(ctx, site, gen, pub, clients, images, &guard, *until, *draft)
	case "lucky":
		runLucky(ctx, site, gen, pub, clients, &guard)
	case "series":
		runSeries(ctx, site, gen, pub, clients, images, &guard, cfg.Series, parseIntervals(*intervals))
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func listClients(ctx context.Context, clients *store.CachedStore) {
	all, err := clients.ListClients(ctx)
	if err != nil {
		log.Fatalf("list clients: %v", err)
	}
	for _, c := range all {
		fmt.Printf("%s\t%s\t%s\n", c.ID, c.Name, c.WebsiteURL)
	}
}

func addClient(ctx context.Context, clients *store.CachedStore, id, name, siteURL, sitemap string) {
	if id == "" || siteURL == "" {
		log.Fatalf("add-client requires -client and -url")
	}
	err := clients.UpsertClient(ctx, store.Client{
		ID:         id,
		Name:       name,
		WebsiteURL: siteURL,
		SitemapURL: sitemap,
	})
	if err != nil {
		log.Fatalf("add client %s: %v", id, err)
	}
	fmt.Printf("saved %s\n", id)
}

func removeClient(ctx context.Context, clients *store.CachedStore, id string) {
	if id == "" {
		log.Fatalf("rm-client requires -client")
	}
	if err := clients.DeleteClient(ctx, id); err != nil {
		log.Fatalf("remove client %s: %v", id, err)
	}
	fmt.Printf("removed %s\n", id)
}

func buildLLM(ctx context.Context, cfg *config.Config) (llmclient.LLMClient, error) {
	if cfg.LLM.Fake {
		return llmclient.Chain(llmclient.NewFakeClient(), llmclient.Logging()), nil
	}
	gemini, err := llmclient.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.LLM.Model)
	if err != nil {
		return nil, err
	}
	return llmclient.Chain(gemini,
		llmclient.Logging(),
		llmclient.Retry(3, 300*time.Millisecond),
	), nil
}

func runStep(ctx context.Context, site genapi.Site, gen *genapi.Client, pub publish.Publisher,
	history pipeline.TopicHistory, images pipeline.ImageSink, guard *pipeline.Guard, until string, draft bool) {
	runner := &pipeline.StepRunner{
		Gen: gen, Pub: pub, History: history, Images: images,
		Draft: draft, Guard: guard,
	}

	last, ok := stageByName(until)
	if !ok {
		log.Fatalf("unknown stage %q", until)
	}

	st := pipeline.NewState(site)
	for stage := pipeline.StageTopic; stage <= last; stage++ {
		var err error
		st, err = runner.Run(ctx, st, stage)
		if err != nil {
			log.Fatalf("stage %s: %v", stage, err)
		}
		fmt.Printf("✔ %s\n", stage)
	}
	if st.Plan != nil {
		fmt.Printf("title: %s\n", st.Plan.Title)
	}
	if st.Publish != nil {
		fmt.Printf("%s (%s)\n", st.Publish.Message, st.Publish.PostURL)
	}
}

func runLucky(ctx context.Context, site genapi.Site, gen *genapi.Client, pub publish.Publisher,
	history pipeline.TopicHistory, guard *pipeline.Guard) {
	runner := &pipeline.LuckyRunner{Gen: gen, Pub: pub, History: history, Guard: guard}

	st, err := runner.Run(ctx, site)
	if err != nil {
		log.Fatalf("lucky run: %v", err)
	}
	fmt.Printf("published %q: %s\n", st.Plan.Title, st.Publish.PostURL)
}

func runSeries(ctx context.Context, site genapi.Site, gen *genapi.Client, pub publish.Publisher,
	history pipeline.TopicHistory, images pipeline.ImageSink, guard *pipeline.Guard,
	cfg config.SeriesConfig, intervalDays []int) {
	runner := &pipeline.SeriesRunner{Gen: gen, Pub: pub, History: history, Images: images, Guard: guard}

	report, err := runner.Run(ctx, site, pipeline.SeriesConfig{
		SupportCount:        cfg.SupportCount,
		IntervalDays:        intervalDays,
		IntervalStep:        cfg.IntervalStep,
		ExtendWordThreshold: cfg.ExtendWordThreshold,
		ExtendMinChars:      cfg.ExtendMinChars,
	})
	if err != nil {
		log.Fatalf("series run: %v", err)
	}

	fmt.Printf("primary %q published: %s\n", report.Primary.Plan.Title, report.Primary.Publish.Message)
	if report.Extended {
		fmt.Println("primary post extended after publish")
	}
	for _, line := range report.Statuses {
		fmt.Println(line)
	}
}

func stageByName(name string) (pipeline.Stage, bool) {
	for stage := pipeline.StageTopic; stage <= pipeline.StagePublish; stage++ {
		if stage.String() == strings.ToLower(strings.TrimSpace(name)) {
			return stage, true
		}
	}
	return 0, false
}

func parseIntervals(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

package job

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/banner"
	"github.com/kknight78/ffmpeg-banner-api/cache"
	"github.com/kknight78/ffmpeg-banner-api/types"
)

func batchRequest(tags ...string) types.BatchOverlayRequest {
	return types.BatchOverlayRequest{
		SourceURL:    "https://videos.example.com/raw/clip.mp4",
		LabelName:    "Acme Cola",
		PlatformTags: tags,
	}
}

func TestRunBatchSharesFetchAndProbe(t *testing.T) {
	fetcher := &fakeFetcher{}
	prober := &fakeProber{meta: portraitMeta()}
	renderer := &fakeRenderer{}
	publisher := &fakePublisher{}
	runner, scratch := newTestRunner(t, RunnerOptions{
		Fetcher: fetcher, Prober: prober, Renderer: renderer, Publisher: publisher,
	})

	results, err := runner.RunBatch(context.Background(), batchRequest("tiktok", "instagram", "youtube"))
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times for the batch, want exactly 1", fetcher.calls)
	}
	if prober.calls != 1 {
		t.Errorf("prober called %d times for the batch, want exactly 1", prober.calls)
	}
	if renderer.calls != 3 || publisher.calls != 3 {
		t.Errorf("renderer/publisher calls = %d/%d, want 3/3", renderer.calls, publisher.calls)
	}

	wantTags := []string{"TIKTOK", "INSTAGRAM", "YOUTUBE"}
	if len(results) != len(wantTags) {
		t.Fatalf("got %d results, want %d", len(results), len(wantTags))
	}
	for i, res := range results {
		if res.PlatformTag != wantTags[i] {
			t.Errorf("result %d tag = %q, want %q in input order", i, res.PlatformTag, wantTags[i])
		}
		if res.URL != publisher.urls[i] {
			t.Errorf("result %d URL = %q, want %q", i, res.URL, publisher.urls[i])
		}
	}

	assertScratchEmpty(t, scratch)
}

func TestRunBatchOutputPathsPerTag(t *testing.T) {
	renderer := &fakeRenderer{}
	runner, _ := newTestRunner(t, RunnerOptions{
		Fetcher: &fakeFetcher{}, Prober: &fakeProber{meta: portraitMeta()},
		Renderer: renderer, Publisher: &fakePublisher{},
	})

	if _, err := runner.RunBatch(context.Background(), batchRequest("TikTok", "Instagram")); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	if renderer.outputs[0] == renderer.outputs[1] {
		t.Errorf("both tags rendered to the same path %q", renderer.outputs[0])
	}
	for i, tag := range []string{"tiktok", "instagram"} {
		if !strings.Contains(renderer.outputs[i], tag) {
			t.Errorf("output path %q does not identify its tag %q", renderer.outputs[i], tag)
		}
	}
}

func TestRunBatchAbortsOnRenderFailure(t *testing.T) {
	publisher := &fakePublisher{}
	runner, scratch := newTestRunner(t, RunnerOptions{
		Fetcher: &fakeFetcher{}, Prober: &fakeProber{meta: portraitMeta()},
		Renderer: &fakeRenderer{failOn: 2}, Publisher: publisher,
	})

	results, err := runner.RunBatch(context.Background(), batchRequest("tiktok", "instagram", "youtube"))
	if apperrors.KindOf(err) != apperrors.KindRender {
		t.Fatalf("error kind = %v, want render", apperrors.KindOf(err))
	}
	if results != nil {
		t.Errorf("failed batch returned partial results: %v", results)
	}
	if publisher.calls != 1 {
		t.Errorf("publisher called %d times, want 1 (only the tag before the failure)", publisher.calls)
	}
	assertScratchEmpty(t, scratch)
}

func TestRunBatchAbortsOnPublishFailure(t *testing.T) {
	runner, scratch := newTestRunner(t, RunnerOptions{
		Fetcher: &fakeFetcher{}, Prober: &fakeProber{meta: portraitMeta()},
		Renderer: &fakeRenderer{}, Publisher: &fakePublisher{failOn: 2},
	})

	results, err := runner.RunBatch(context.Background(), batchRequest("tiktok", "instagram"))
	if apperrors.KindOf(err) != apperrors.KindPublish {
		t.Fatalf("error kind = %v, want publish", apperrors.KindOf(err))
	}
	if results != nil {
		t.Errorf("failed batch returned partial results: %v", results)
	}
	assertScratchEmpty(t, scratch)
}

func TestRunBatchValidatesRequest(t *testing.T) {
	fetcher := &fakeFetcher{}
	runner, _ := newTestRunner(t, RunnerOptions{
		Fetcher: fetcher, Prober: &fakeProber{meta: portraitMeta()},
		Renderer: &fakeRenderer{}, Publisher: &fakePublisher{},
	})

	_, err := runner.RunBatch(context.Background(), batchRequest())
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("error kind = %v, want validation for an empty tag list", apperrors.KindOf(err))
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher ran %d times for an invalid batch", fetcher.calls)
	}
}

func TestRunBatchResolvesPresetsPerTag(t *testing.T) {
	presets := banner.Presets{
		"TIKTOK":    {YPercent: fptr(0.25)},
		"INSTAGRAM": {FontSizePercent: fptr(0.05)},
	}
	renderer := &fakeRenderer{}
	runner, _ := newTestRunner(t, RunnerOptions{
		Fetcher: &fakeFetcher{}, Prober: &fakeProber{meta: portraitMeta()},
		Renderer: renderer, Publisher: &fakePublisher{},
		Presets: presets,
	})

	if _, err := runner.RunBatch(context.Background(), batchRequest("tiktok", "instagram")); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	for i, tag := range []string{"TIKTOK", "INSTAGRAM"} {
		want, err := banner.Resolve(banner.Merge(presets[tag], nil), portraitMeta(), "Acme Cola", tag)
		if err != nil {
			t.Fatalf("resolving expected geometry for %s: %v", tag, err)
		}
		if !reflect.DeepEqual(renderer.geoms[i], want) {
			t.Errorf("%s geometry = %+v, want %+v", tag, renderer.geoms[i], want)
		}
	}
}

func TestRunBatchCacheHitSkipsRendition(t *testing.T) {
	req := batchRequest("tiktok", "instagram")
	key := cache.Key(req.SourceURL, req.LabelName, "INSTAGRAM", 0, banner.Merge(nil, nil))
	cached := &fakeCache{entries: map[string]string{key: "https://cdn.example.com/cached.mp4"}}
	fetcher := &fakeFetcher{}
	renderer := &fakeRenderer{}
	runner, scratch := newTestRunner(t, RunnerOptions{
		Fetcher: fetcher, Prober: &fakeProber{meta: portraitMeta()},
		Renderer: renderer, Publisher: &fakePublisher{},
		Cache: cached,
	})

	results, err := runner.RunBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	// The shared download still happens; only the cached tag's render is skipped.
	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.calls)
	}
	if renderer.calls != 1 {
		t.Errorf("renderer calls = %d, want 1 (instagram came from cache)", renderer.calls)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[1].URL != "https://cdn.example.com/cached.mp4" {
		t.Errorf("cached tag URL = %q, want the cached URL", results[1].URL)
	}
	assertScratchEmpty(t, scratch)
}

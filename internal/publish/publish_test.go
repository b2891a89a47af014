package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"socialpub/internal/uploader"
)

type fakeUseCases struct {
	profiles    []PublishingProfile
	profilesErr error

	uploadID    string
	registerErr error

	states   []UploadState
	stateErr error

	publishResult *uploader.Result
	publishErr    error

	profileCalls  int
	registerCalls int
	stateCalls    int
	publishCalls  int

	lastRegistration Registration
	lastPost         Post
}

func (f *fakeUseCases) GetProfilesForPublishing(ctx context.Context, provider string, opts uploader.Options) ([]PublishingProfile, error) {
	f.profileCalls++
	return f.profiles, f.profilesErr
}

func (f *fakeUseCases) RegisterUpload(ctx context.Context, provider string, reg Registration, opts uploader.Options) (string, error) {
	f.registerCalls++
	f.lastRegistration = reg
	return f.uploadID, f.registerErr
}

func (f *fakeUseCases) GetUploadState(ctx context.Context, provider, uploadID string, opts uploader.Options) (UploadState, error) {
	f.stateCalls++
	if f.stateErr != nil {
		return "", f.stateErr
	}
	if len(f.states) == 0 {
		return StateInProgress, nil
	}
	state := f.states[0]
	if len(f.states) > 1 {
		f.states = f.states[1:]
	}
	return state, nil
}

func (f *fakeUseCases) PublishPost(ctx context.Context, provider string, post Post, opts uploader.Options) (*uploader.Result, error) {
	f.publishCalls++
	f.lastPost = post
	return f.publishResult, f.publishErr
}

type fakeUploader struct {
	provider string
	result   *uploader.Result
	err      error

	calls    int
	lastPath string
	lastReq  uploader.Request
}

func (f *fakeUploader) Provider() string { return f.provider }

func (f *fakeUploader) Upload(ctx context.Context, filePath string, req uploader.Request, opts uploader.Options) (*uploader.Result, error) {
	f.calls++
	f.lastPath = filePath
	f.lastReq = req
	return f.result, f.err
}

func newTestPublisher(t *testing.T, usecases UseCases, registry *uploader.Registry) *Publisher {
	t.Helper()
	if registry == nil {
		registry = uploader.NewRegistry()
	}
	return &Publisher{
		usecases:          usecases,
		registry:          registry,
		fetch:             failingFetch,
		tempRoot:          t.TempDir(),
		pollInterval:      time.Millisecond,
		processingTimeout: 100 * time.Millisecond,
	}
}

func failingFetch(ctx context.Context, dir, rawURL string) (string, error) {
	return "", fmt.Errorf("fetch not expected in this test")
}

func localVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte("bytes"), 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}

func TestPublishVideoURLWithRemoteURLProvider(t *testing.T) {
	usecases := &fakeUseCases{
		uploadID:      "upl-1",
		states:        []UploadState{StateFinished},
		publishResult: &uploader.Result{PostID: "post-1", URL: "https://instagram.com/p/1"},
	}
	publisher := newTestPublisher(t, usecases, nil)

	result, err := publisher.PublishVideo(context.Background(),
		Input{Video: "https://cdn.example.com/clip.mp4", ProfileID: "prof-1", Caption: "hi"},
		"instagram", uploader.InstagramOptions{})
	if err != nil {
		t.Fatalf("PublishVideo() error: %v", err)
	}

	if result.PostID != "post-1" || result.URL != "https://instagram.com/p/1" {
		t.Errorf("result = %+v, want pipeline result passed through", result)
	}
	if usecases.registerCalls != 1 || usecases.publishCalls != 1 {
		t.Errorf("register/publish calls = %d/%d, want 1/1", usecases.registerCalls, usecases.publishCalls)
	}
	if usecases.lastRegistration.URL != "https://cdn.example.com/clip.mp4" {
		t.Errorf("registered URL = %q", usecases.lastRegistration.URL)
	}
	if usecases.lastRegistration.UploadType != "video" {
		t.Errorf("uploadType = %q, want video", usecases.lastRegistration.UploadType)
	}
}

func TestPublishVideoURLFallbackToResumable(t *testing.T) {
	up := &fakeUploader{provider: "tiktok", result: &uploader.Result{PostID: "tt-1"}}
	publisher := newTestPublisher(t, &fakeUseCases{}, uploader.NewRegistry(up))

	var fetchedDir string
	publisher.fetch = func(ctx context.Context, dir, rawURL string) (string, error) {
		fetchedDir = dir
		path := filepath.Join(dir, "downloaded.mp4")
		return path, os.WriteFile(path, []byte("x"), 0644)
	}

	result, err := publisher.PublishVideo(context.Background(),
		Input{Video: "https://cdn.example.com/clip.mp4", Caption: "cap"},
		"tiktok", uploader.TikTokOptions{Security: uploader.Security{AccessToken: "tok"}})
	if err != nil {
		t.Fatalf("PublishVideo() error: %v", err)
	}

	if result.PostID != "tt-1" {
		t.Errorf("PostID = %q, want tt-1", result.PostID)
	}
	if up.calls != 1 {
		t.Errorf("uploader calls = %d, want 1", up.calls)
	}
	if filepath.Dir(up.lastPath) != fetchedDir {
		t.Errorf("uploaded %q, want file from download dir %q", up.lastPath, fetchedDir)
	}
	if up.lastReq.Caption != "cap" {
		t.Errorf("caption = %q, want cap", up.lastReq.Caption)
	}
	if _, err := os.Stat(fetchedDir); !os.IsNotExist(err) {
		t.Errorf("download dir %q should be removed after publishing", fetchedDir)
	}
}

func TestPublishVideoDownloadDirUnderConfiguredTempRoot(t *testing.T) {
	root := t.TempDir()
	up := &fakeUploader{provider: "tiktok", result: &uploader.Result{PostID: "tt-1"}}
	publisher := New(&fakeUseCases{}, uploader.NewRegistry(up), root)

	var fetchedDir string
	publisher.fetch = func(ctx context.Context, dir, rawURL string) (string, error) {
		fetchedDir = dir
		path := filepath.Join(dir, "downloaded.mp4")
		return path, os.WriteFile(path, []byte("x"), 0644)
	}

	_, err := publisher.PublishVideo(context.Background(),
		Input{Video: "https://cdn.example.com/clip.mp4"},
		"tiktok", uploader.TikTokOptions{Security: uploader.Security{AccessToken: "tok"}})
	if err != nil {
		t.Fatalf("PublishVideo() error: %v", err)
	}

	if filepath.Dir(fetchedDir) != root {
		t.Errorf("download dir = %q, want it under the configured root %q", fetchedDir, root)
	}
}

func TestPublishVideoURLFallbackCleansUpOnFailure(t *testing.T) {
	up := &fakeUploader{provider: "tiktok", err: errors.New("upstream rejected it")}
	publisher := newTestPublisher(t, &fakeUseCases{}, uploader.NewRegistry(up))

	var fetchedDir string
	publisher.fetch = func(ctx context.Context, dir, rawURL string) (string, error) {
		fetchedDir = dir
		path := filepath.Join(dir, "downloaded.mp4")
		return path, os.WriteFile(path, []byte("x"), 0644)
	}

	_, err := publisher.PublishVideo(context.Background(),
		Input{Video: "https://cdn.example.com/clip.mp4"},
		"tiktok", uploader.TikTokOptions{Security: uploader.Security{AccessToken: "tok"}})
	if err == nil {
		t.Fatal("PublishVideo() should propagate the upload failure")
	}
	if _, statErr := os.Stat(fetchedDir); !os.IsNotExist(statErr) {
		t.Errorf("download dir %q should be removed after failure", fetchedDir)
	}
}

func TestPublishVideoURLUnsupportedProvider(t *testing.T) {
	usecases := &fakeUseCases{}
	publisher := newTestPublisher(t, usecases, nil)

	_, err := publisher.PublishVideo(context.Background(),
		Input{Video: "https://cdn.example.com/clip.mp4"}, "myspace", nil)
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("PublishVideo() error = %v, want ErrUnsupportedProvider", err)
	}
	if usecases.profileCalls+usecases.registerCalls+usecases.stateCalls+usecases.publishCalls != 0 {
		t.Error("no network operation should run for an unsupported provider")
	}
}

func TestPublishVideoFileWithResumableProvider(t *testing.T) {
	up := &fakeUploader{provider: "youtube", result: &uploader.Result{PostID: "yt-1"}}
	publisher := newTestPublisher(t, &fakeUseCases{}, uploader.NewRegistry(up))

	path := localVideo(t)
	result, err := publisher.PublishVideo(context.Background(),
		Input{Video: path, Caption: "c", ShortFormVideo: true},
		"youtube", uploader.YouTubeOptions{Security: uploader.Security{AccessToken: "tok"}})
	if err != nil {
		t.Fatalf("PublishVideo() error: %v", err)
	}

	if result.PostID != "yt-1" {
		t.Errorf("PostID = %q, want yt-1", result.PostID)
	}
	if up.lastPath != path {
		t.Errorf("uploaded %q, want %q", up.lastPath, path)
	}
	if !up.lastReq.ShortFormVideo {
		t.Error("short-form flag should reach the uploader")
	}
}

func TestPublishVideoFileNoRegisteredUploader(t *testing.T) {
	up := &fakeUploader{provider: "youtube"}
	publisher := newTestPublisher(t, &fakeUseCases{}, uploader.NewRegistry(up))

	_, err := publisher.PublishVideo(context.Background(),
		Input{Video: localVideo(t)}, "tiktok", nil)
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("PublishVideo() error = %v, want ErrNotImplemented", err)
	}
	if !strings.Contains(err.Error(), "youtube") {
		t.Errorf("error %q should name the registered providers", err)
	}
}

func TestPublishVideoFileWithURLOnlyProvider(t *testing.T) {
	publisher := newTestPublisher(t, &fakeUseCases{}, nil)

	_, err := publisher.PublishVideo(context.Background(),
		Input{Video: localVideo(t)}, "instagram", nil)
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("PublishVideo() error = %v, want ErrUnsupportedProvider", err)
	}
}

func TestPublishVideoMissingSource(t *testing.T) {
	publisher := newTestPublisher(t, &fakeUseCases{}, nil)

	_, err := publisher.PublishVideo(context.Background(),
		Input{Video: filepath.Join(t.TempDir(), "missing.mp4")}, "instagram", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("PublishVideo() error = %v, want ErrNotFound", err)
	}
}

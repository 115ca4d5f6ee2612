package push

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-devsync/pkg/interfaces"
)

func TestStatusLinePadsTitleToWidth(t *testing.T) {
	printer := NewStatusPrinter(&bytes.Buffer{}, WithNoColor(true))

	got := printer.StatusLine("Foo", interfaces.UploadStatusPosting, interfaces.PublishStatusDraft)
	want := "Foo" + strings.Repeat(".", 47) + "[POSTING draft]"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStatusLineTruncatesLongTitles(t *testing.T) {
	printer := NewStatusPrinter(&bytes.Buffer{}, WithNoColor(true))
	title := strings.Repeat("a", 60)

	got := printer.StatusLine(title, interfaces.UploadStatusUploaded, interfaces.PublishStatusPublished)
	want := strings.Repeat("a", 50) + "[UPLOADED published]"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStatusLineCountsRunes(t *testing.T) {
	printer := NewStatusPrinter(&bytes.Buffer{}, WithNoColor(true), WithTitleWidth(10))

	got := printer.StatusLine("Café", interfaces.UploadStatusSyncing, interfaces.PublishStatusDraft)
	want := "Café......[SYNCING draft]"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestUploadLineMessages(t *testing.T) {
	printer := NewStatusPrinter(&bytes.Buffer{}, WithNoColor(true))

	cases := []struct {
		name   string
		result interfaces.UploadResult
		want   string
	}{
		{
			name:   "created",
			result: interfaces.UploadResult{Action: interfaces.ActionCreate, StatusCode: 201},
			want:   "Post was successful",
		},
		{
			name:   "updated",
			result: interfaces.UploadResult{Action: interfaces.ActionUpdate, RemoteID: 7, StatusCode: 200},
			want:   "Update was successful",
		},
		{
			name:   "rejected",
			result: interfaces.UploadResult{Action: interfaces.ActionCreate, StatusCode: 422, Body: "{\"error\":\"title taken\"}\n", Err: errors.New("rejected")},
			want:   "Dev.to error 422 {\"error\":\"title taken\"}",
		},
		{
			name:   "exhausted",
			result: interfaces.UploadResult{Action: interfaces.ActionUpdate, Attempts: 4, Err: errors.New("connection refused")},
			want:   "Upload failed after 4 attempts: connection refused",
		},
		{
			name: "exhausted joined cause",
			result: interfaces.UploadResult{Action: interfaces.ActionCreate, Attempts: 2, Err: errors.Join(
				errors.New("article upload failed after 2 attempts"),
				errors.New("POST http://localhost/api/articles: EOF"),
			)},
			want: "Upload failed after 2 attempts: POST http://localhost/api/articles: EOF",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := printer.UploadLine(tc.result); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSummaryListsFailures(t *testing.T) {
	var out bytes.Buffer
	printer := NewStatusPrinter(&out, WithNoColor(true))

	printer.Summary(&interfaces.SyncResult{
		Created: 1,
		Updated: 2,
		Skipped: 3,
		Failed:  1,
		Files: []interfaces.FileResult{
			{Path: "ok.md", Upload: &interfaces.UploadResult{StatusCode: 201}},
			{Path: "bad.md", Upload: &interfaces.UploadResult{StatusCode: 422, Err: errors.New("rejected")}},
		},
	})

	want := "1 created, 2 updated, 3 unchanged, 1 failed\n  failed: bad.md (status 422)\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestSummaryMarksDryRun(t *testing.T) {
	printer := NewStatusPrinter(&bytes.Buffer{}, WithNoColor(true))

	got := printer.SummaryLine(&interfaces.SyncResult{DryRun: true, Created: 1})
	if got != "1 created, 0 updated, 0 unchanged, 0 failed (dry run)" {
		t.Fatalf("unexpected summary %q", got)
	}
}

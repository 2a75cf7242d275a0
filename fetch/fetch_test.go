package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDateString(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC), "8-9-2024"},
		{time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), "30-9-2024"},
		{time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), "1-10-2024"},
	}
	for _, test := range tests {
		if got := DateString(test.date); got != test.want {
			t.Errorf("DateString(%v) = %q, want %q", test.date, got, test.want)
		}
	}
}

func TestTasks(t *testing.T) {
	start := time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	tasks := Tasks(start, end, []int{1, 2}, URLTemplates)

	// 3 days x 2 pages.
	if len(tasks) != 6 {
		t.Fatalf("got %d tasks, want 6", len(tasks))
	}
	first := tasks[0]
	if first.Name != "Waterlevel_Forecast_8-9-2024_Page_1.png" {
		t.Errorf("first task name = %q", first.Name)
	}
	if len(first.URLs) != len(URLTemplates) {
		t.Fatalf("got %d URLs, want %d", len(first.URLs), len(URLTemplates))
	}
	if !strings.Contains(first.URLs[0], "(8-9-2024)-E_Page_1.jpg") {
		t.Errorf("first URL = %q", first.URLs[0])
	}
	for _, u := range first.URLs {
		if strings.Contains(u, "{") {
			t.Errorf("unexpanded placeholder in %q", u)
		}
	}
	last := tasks[len(tasks)-1]
	if last.Name != "Waterlevel_Forecast_10-9-2024_Page_2.png" {
		t.Errorf("last task name = %q", last.Name)
	}
}

func TestDownloaderRun(t *testing.T) {
	// Page 1 is only present at the fallback location; page 2 is gone
	// everywhere.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "fallback") && strings.Contains(r.URL.RawQuery, "page=1") {
			w.Write([]byte("image-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	templates := []string{
		srv.URL + "/primary/{date}?page={page}",
		srv.URL + "/fallback/{date}?page={page}",
	}
	day := time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)
	tasks := Tasks(day, day, []int{1, 2}, templates)

	dir := t.TempDir()
	d := &Downloader{Dir: dir, Workers: 2}
	succeeded := d.Run(context.Background(), tasks)
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", succeeded)
	}

	b, err := os.ReadFile(filepath.Join(dir, "Waterlevel_Forecast_8-9-2024_Page_1.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "image-bytes" {
		t.Errorf("file contents = %q", b)
	}
	if _, err := os.Stat(filepath.Join(dir, "Waterlevel_Forecast_8-9-2024_Page_2.png")); !os.IsNotExist(err) {
		t.Errorf("page 2 file should not exist: %v", err)
	}
}

/*
Copyright © 2026 the FloodViz authors.
This file is part of FloodViz.

FloodViz is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FloodViz is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FloodViz.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package fetch downloads the daily water-level forecast images published
// by the Myanmar Department of Meteorology and Hydrology. The publication
// URL drifted over time, so several URL templates exist for the same
// image; the first one that answers is used.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ctessum/requestcache"
)

// URLTemplates are the known publication locations of the forecast
// images, in the order they should be tried. {date} expands to the
// forecast date as D-M-YYYY without zero padding and {page} to the page
// number.
var URLTemplates = []string{
	"https://www.moezala.gov.mm/sites/default/files/__MACOSX/Daily%20Waterlevel%20Forecast({date})-E_Page_{page}.jpg",
	"https://www.moezala.gov.mm/sites/default/files/Daily%20Waterlevel%20Forecast({date})-E_Page_{page}_0.jpg",
	"https://www.moezala.gov.mm/sites/default/files/Daily%20Waterlevel%20Forecast({date})-E_Page_{page}.jpg",
}

// A Task is one forecast image to download: the candidate URLs to try in
// order and the local file name to save it under.
type Task struct {
	Date time.Time
	Page int
	URLs []string
	Name string
}

// DateString formats a forecast date the way the publisher embeds it in
// file names: D-M-YYYY without zero padding.
func DateString(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Day(), int(t.Month()), t.Year())
}

// Tasks builds the download task set for every day in [start, end]
// (inclusive) and every page, expanding the given URL templates.
func Tasks(start, end time.Time, pages []int, templates []string) []Task {
	var tasks []Task
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := DateString(d)
		for _, page := range pages {
			r := strings.NewReplacer("{date}", date, "{page}", strconv.Itoa(page))
			urls := make([]string, len(templates))
			for i, tmpl := range templates {
				urls[i] = r.Replace(tmpl)
			}
			tasks = append(tasks, Task{
				Date: d,
				Page: page,
				URLs: urls,
				Name: fmt.Sprintf("Waterlevel_Forecast_%s_Page_%d.png", date, page),
			})
		}
	}
	return tasks
}

// A Downloader fetches forecast images over a bounded worker pool. Each
// task succeeds or fails on its own: a failure is logged and skipped,
// never retried, and never aborts the batch.
type Downloader struct {
	// Dir is the directory downloaded images are saved into.
	Dir string

	// Workers bounds the number of simultaneous downloads.
	// Zero means 4.
	Workers int

	// Client is the HTTP client to use. Zero value means
	// http.DefaultClient; no timeout is applied beyond the client's own.
	Client *http.Client
}

func (d *Downloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

// Run downloads all tasks and returns the number that succeeded.
func (d *Downloader) Run(ctx context.Context, tasks []Task) int {
	workers := d.Workers
	if workers <= 0 {
		workers = 4
	}
	cache := requestcache.NewCache(d.fetch, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, task := range tasks {
		req := cache.NewRequest(ctx, task, task.Name)
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			if _, err := req.Result(); err != nil {
				log.Printf("failed: %s: %v", task.Name, err)
				return
			}
			log.Printf("downloaded: %s", task.Name)
			mu.Lock()
			succeeded++
			mu.Unlock()
		}(task)
	}
	wg.Wait()
	return succeeded
}

// fetch tries the task's candidate URLs in order and saves the first
// response with status 200.
func (d *Downloader) fetch(ctx context.Context, payload interface{}) (interface{}, error) {
	task := payload.(Task)
	for _, u := range task.URLs {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := d.client().Do(req)
		if err != nil {
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			continue
		}
		path := filepath.Join(d.Dir, task.Name)
		if err := saveBody(path, resp.Body); err != nil {
			resp.Body.Close()
			return nil, err
		}
		resp.Body.Close()
		return path, nil
	}
	return nil, fmt.Errorf("fetch: no source answered for %s page %d",
		DateString(task.Date), task.Page)
}

func saveBody(path string, body io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

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

package floodvizutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/evacsim/floodviz/fetch"
)

// Download fetches the daily forecast images for every date in
// [start, end] (YYYY-MM-DD, inclusive) and every page.
func Download(ctx context.Context, start, end string, pages []int, dir string, workers int) error {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return fmt.Errorf("floodviz: parsing start date: %v", err)
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return fmt.Errorf("floodviz: parsing end date: %v", err)
	}
	if to.Before(from) {
		return fmt.Errorf("floodviz: end date %s is before start date %s", end, start)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tasks := fetch.Tasks(from, to, pages, fetch.URLTemplates)
	d := &fetch.Downloader{Dir: dir, Workers: workers}
	n := d.Run(ctx, tasks)
	fmt.Printf("Downloaded %d of %d forecast images to %s.\n", n, len(tasks), dir)
	return nil
}

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

package plots

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/requestcache"
	"github.com/golang/groupcache/lru"
)

// Map projections. Registry coordinates are WGS84 longitude/latitude;
// basemap tiles and figure geometry are in web mercator.
const (
	longLatProj = "+proj=longlat +datum=WGS84"
	webMapProj  = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"
)

// webMercator returns a transform from longitude/latitude to web
// mercator coordinates.
func webMercator() (proj.Transformer, error) {
	src, err := proj.Parse(longLatProj)
	if err != nil {
		return nil, fmt.Errorf("plots: parsing longlat projection: %v", err)
	}
	dst, err := proj.Parse(webMapProj)
	if err != nil {
		return nil, fmt.Errorf("plots: parsing web mercator projection: %v", err)
	}
	return src.NewTransform(dst)
}

const (
	tileSize = 256
	// originShift is half the extent of the web mercator plane in meters.
	originShift = 2 * math.Pi * 6378137 / 2

	maxTileZoom = 19
)

// DefaultTileServer is the OSM standard raster tile scheme.
const DefaultTileServer = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// A Basemap fetches and stitches raster map tiles to place under vector
// figures. Tiles are fetched over a bounded worker pool and decoded
// tiles are kept in an LRU cache so successive figures reuse them. A
// tile that cannot be fetched leaves a blank patch and is logged; it
// never fails the figure.
type Basemap struct {
	// Server is the tile URL template; {z}, {x} and {y} are expanded.
	// An empty Server disables the basemap (figures get a plain
	// background), which also keeps tests off the network.
	Server string

	// Workers bounds concurrent tile fetches. Zero means 4.
	Workers int

	// Client is the HTTP client used for tile fetches. Nil means
	// http.DefaultClient.
	Client *http.Client

	once  sync.Once
	cache *requestcache.Cache

	mu    sync.Mutex
	tiles *lru.Cache
}

// NewBasemap returns a Basemap backed by the standard OSM tile server.
func NewBasemap() *Basemap {
	return &Basemap{Server: DefaultTileServer}
}

type tileKey struct{ z, x, y int }

func (b *Basemap) init() {
	b.once.Do(func() {
		workers := b.Workers
		if workers <= 0 {
			workers = 4
		}
		b.tiles = lru.New(256)
		b.cache = requestcache.NewCache(b.fetchTile, workers, requestcache.Deduplicate())
	})
}

func (b *Basemap) url(k tileKey) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(k.z),
		"{x}", strconv.Itoa(k.x),
		"{y}", strconv.Itoa(k.y),
	)
	return r.Replace(b.Server)
}

func (b *Basemap) fetchTile(ctx context.Context, payload interface{}) (interface{}, error) {
	k := payload.(tileKey)
	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url(k), nil)
	if err != nil {
		return nil, err
	}
	// Required by the OSM tile usage policy.
	req.Header.Set("User-Agent", "floodviz (+https://github.com/evacsim/floodviz)")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plots: tile %d/%d/%d: status %s", k.z, k.x, k.y, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("plots: decoding tile %d/%d/%d: %v", k.z, k.x, k.y, err)
	}
	return img, nil
}

// tile returns the decoded tile image, from the LRU cache when possible.
func (b *Basemap) tile(ctx context.Context, k tileKey) (image.Image, error) {
	b.mu.Lock()
	if v, ok := b.tiles.Get(k); ok {
		b.mu.Unlock()
		return v.(image.Image), nil
	}
	b.mu.Unlock()

	req := b.cache.NewRequest(ctx, k, fmt.Sprintf("%d/%d/%d", k.z, k.x, k.y))
	v, err := req.Result()
	if err != nil {
		return nil, err
	}
	img := v.(image.Image)
	b.mu.Lock()
	b.tiles.Add(k, img)
	b.mu.Unlock()
	return img, nil
}

// zoomFor picks the tile zoom level at which the mercator bounds span
// approximately widthPx pixels.
func zoomFor(bounds geom.Bounds, widthPx int) int {
	w := bounds.Max.X - bounds.Min.X
	if w <= 0 {
		return maxTileZoom
	}
	// meters per pixel at zoom z is 2*originShift / (256 * 2^z).
	z := int(math.Ceil(math.Log2(2 * originShift * float64(widthPx) / (w * tileSize))))
	if z < 0 {
		z = 0
	}
	if z > maxTileZoom {
		z = maxTileZoom
	}
	return z
}

// tileIndex returns the x/y index of the tile containing the mercator
// point at the given zoom.
func tileIndex(x, y float64, zoom int) (tx, ty int) {
	n := float64(int(1) << uint(zoom))
	tx = int(math.Floor((x + originShift) / (2 * originShift) * n))
	ty = int(math.Floor((originShift - y) / (2 * originShift) * n))
	max := int(n) - 1
	tx = clampInt(tx, 0, max)
	ty = clampInt(ty, 0, max)
	return
}

// tileBounds returns the mercator bounds of the tile.
func tileBounds(tx, ty, zoom int) geom.Bounds {
	n := float64(int(1) << uint(zoom))
	size := 2 * originShift / n
	return geom.Bounds{
		Min: geom.Point{X: -originShift + float64(tx)*size, Y: originShift - float64(ty+1)*size},
		Max: geom.Point{X: -originShift + float64(tx+1)*size, Y: originShift - float64(ty)*size},
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Image stitches the tiles covering the given mercator bounds into one
// image rendered at roughly widthPx pixels across, and returns it along
// with the mercator bounds the stitched image actually covers (the tile
// grid is coarser than the request).
func (b *Basemap) Image(ctx context.Context, bounds geom.Bounds, widthPx int) (image.Image, geom.Bounds, error) {
	if b == nil || b.Server == "" {
		return nil, bounds, nil
	}
	b.init()

	zoom := zoomFor(bounds, widthPx)
	x0, y0 := tileIndex(bounds.Min.X, bounds.Max.Y, zoom)
	x1, y1 := tileIndex(bounds.Max.X, bounds.Min.Y, zoom)

	out := image.NewRGBA(image.Rect(0, 0, (x1-x0+1)*tileSize, (y1-y0+1)*tileSize))
	var wg sync.WaitGroup
	var mu sync.Mutex
	for tx := x0; tx <= x1; tx++ {
		for ty := y0; ty <= y1; ty++ {
			wg.Add(1)
			go func(tx, ty int) {
				defer wg.Done()
				img, err := b.tile(ctx, tileKey{z: zoom, x: tx, y: ty})
				if err != nil {
					log.Printf("basemap tile %d/%d/%d unavailable: %v", zoom, tx, ty, err)
					return
				}
				r := image.Rect((tx-x0)*tileSize, (ty-y0)*tileSize,
					(tx-x0+1)*tileSize, (ty-y0+1)*tileSize)
				mu.Lock()
				draw.Draw(out, r, img, img.Bounds().Min, draw.Src)
				mu.Unlock()
			}(tx, ty)
		}
	}
	wg.Wait()

	covered := geom.Bounds{
		Min: geom.Point{
			X: tileBounds(x0, y0, zoom).Min.X,
			Y: tileBounds(x0, y1, zoom).Min.Y,
		},
		Max: geom.Point{
			X: tileBounds(x1, y0, zoom).Max.X,
			Y: tileBounds(x0, y0, zoom).Max.Y,
		},
	}
	return out, covered, nil
}

// Package colorcluster implements the dynamic color clustering engine and
// the distinct-RGB-values-per-cluster metric built on top of it.
package colorcluster

import (
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/MarcWong/aim/internal/metric"
)

// Params is the per-GUI-type parameter profile of the engine.
type Params struct {
	// ReductionThreshold drops colors covering at most this many pixels
	// before clustering. Desktop screenshots carry more anti-aliasing
	// noise than mobile ones, hence the higher bar.
	ReductionThreshold int
	// MergeDistance is the CIE-Lab distance under which a color joins an
	// existing cluster instead of seeding a new one.
	MergeDistance float64
	// MaxClusters bounds the final cluster count; k-means re-partitioning
	// kicks in when the greedy pass exceeds it.
	MaxClusters int
}

// ParamsFor returns the engine profile for a GUI type.
func ParamsFor(t metric.GUIType) Params {
	if t == metric.Mobile {
		return Params{ReductionThreshold: 2, MergeDistance: 0.2, MaxClusters: 64}
	}
	return Params{ReductionThreshold: 5, MergeDistance: 0.15, MaxClusters: 128}
}

// Cluster is one perceptual color cluster: a pixel-count-weighted
// representative color plus the number of distinct original RGB values it
// absorbed. Clusters partition the set of considered pixels.
type Cluster struct {
	R, G, B        float64
	Pixels         int
	DistinctColors int
}

func (c Cluster) lab() colorful.Color {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
}

type colorCount struct {
	rgb   [3]uint8
	count int
}

// DynamicClusters groups the raster's pixels into perceptual color
// clusters. An empty result is a valid outcome, not an error: it simply
// means no color passed the reduction threshold.
func DynamicClusters(img *image.RGBA, p Params) []Cluster {
	counts := histogram(img)

	frequent := make([]colorCount, 0, len(counts))
	for rgb, n := range counts {
		if n > p.ReductionThreshold {
			frequent = append(frequent, colorCount{rgb: rgb, count: n})
		}
	}
	// Deterministic order: dominant colors place cluster seeds first,
	// ties broken by packed RGB value.
	sort.Slice(frequent, func(i, j int) bool {
		if frequent[i].count != frequent[j].count {
			return frequent[i].count > frequent[j].count
		}
		return packed(frequent[i].rgb) < packed(frequent[j].rgb)
	})

	var out []Cluster
	for _, cc := range frequent {
		c := colorful.Color{
			R: float64(cc.rgb[0]) / 255,
			G: float64(cc.rgb[1]) / 255,
			B: float64(cc.rgb[2]) / 255,
		}
		best := -1
		bestDist := p.MergeDistance
		for i := range out {
			if d := c.DistanceLab(out[i].lab()); d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best < 0 {
			out = append(out, Cluster{
				R:              float64(cc.rgb[0]),
				G:              float64(cc.rgb[1]),
				B:              float64(cc.rgb[2]),
				Pixels:         cc.count,
				DistinctColors: 1,
			})
			continue
		}
		absorb(&out[best], float64(cc.rgb[0]), float64(cc.rgb[1]), float64(cc.rgb[2]), cc.count, 1)
	}

	out = mergePass(out, p.MergeDistance)
	if p.MaxClusters > 0 && len(out) > p.MaxClusters {
		out = repartition(out, p.MaxClusters)
	}
	return out
}

func histogram(img *image.RGBA) map[[3]uint8]int {
	counts := make(map[[3]uint8]int)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			o := x * 4
			counts[[3]uint8{row[o], row[o+1], row[o+2]}]++
		}
	}
	return counts
}

func packed(rgb [3]uint8) int {
	return int(rgb[0])<<16 | int(rgb[1])<<8 | int(rgb[2])
}

// absorb folds a color (or a whole cluster) into dst, recentering by
// pixel weight.
func absorb(dst *Cluster, r, g, b float64, pixels, distinct int) {
	total := float64(dst.Pixels + pixels)
	w := float64(pixels)
	dst.R = (dst.R*float64(dst.Pixels) + r*w) / total
	dst.G = (dst.G*float64(dst.Pixels) + g*w) / total
	dst.B = (dst.B*float64(dst.Pixels) + b*w) / total
	dst.Pixels += pixels
	dst.DistinctColors += distinct
}

// mergePass folds together clusters whose recentered representatives ended
// up within the merge distance of each other. Larger clusters win.
func mergePass(in []Cluster, dist float64) []Cluster {
	sort.Slice(in, func(i, j int) bool {
		if in[i].Pixels != in[j].Pixels {
			return in[i].Pixels > in[j].Pixels
		}
		return in[i].DistinctColors > in[j].DistinctColors
	})
	var out []Cluster
	for _, c := range in {
		merged := false
		for i := range out {
			if c.lab().DistanceLab(out[i].lab()) < dist {
				absorb(&out[i], c.R, c.G, c.B, c.Pixels, c.DistinctColors)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, c)
		}
	}
	return out
}

// repartition enforces the cluster-count bound by running k-means over the
// cluster centers and aggregating source clusters onto the nearest
// resulting center. The total distinct-color count is preserved, so the
// derived ratio stays deterministic even though k-means seeding is not.
func repartition(in []Cluster, k int) []Cluster {
	obs := make(clusters.Observations, len(in))
	for i, c := range in {
		obs[i] = clusters.Coordinates{c.R, c.G, c.B}
	}
	km := kmeans.New()
	partitioned, err := km.Partition(obs, k)
	if err != nil {
		// The bound is best-effort; the greedy result is still valid.
		return in
	}

	centers := make([][3]float64, 0, len(partitioned))
	for _, pc := range partitioned {
		if len(pc.Center) == 3 {
			centers = append(centers, [3]float64{pc.Center[0], pc.Center[1], pc.Center[2]})
		}
	}
	if len(centers) == 0 {
		return in
	}

	out := make([]Cluster, len(centers))
	for _, c := range in {
		best, bestDist := 0, -1.0
		for i, ctr := range centers {
			d := sqDist(c.R, c.G, c.B, ctr[0], ctr[1], ctr[2])
			if bestDist < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if out[best].Pixels == 0 {
			out[best] = c
		} else {
			absorb(&out[best], c.R, c.G, c.B, c.Pixels, c.DistinctColors)
		}
	}

	// Drop centers that attracted nothing.
	final := out[:0]
	for _, c := range out {
		if c.Pixels > 0 {
			final = append(final, c)
		}
	}
	return final
}

func sqDist(r1, g1, b1, r2, g2, b2 float64) float64 {
	dr, dg, db := r1-r2, g1-g2, b1-b2
	return dr*dr + dg*dg + db*db
}

package contour

import (
	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/raster"
)

// trace runs marching squares over the surface at a single level and
// chains the per-cell line segments into polylines. A corner counts as
// inside when its value is strictly greater than the level, so a level
// equal to a flat surface's value yields no segments.
func trace(s *raster.Surface, level float64) []Segment {
	rows, cols := s.Rows(), s.Cols()
	ch := newChainer()

	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			v00 := s.Z.At(i, j)     // bottom-left
			v10 := s.Z.At(i, j+1)   // bottom-right
			v11 := s.Z.At(i+1, j+1) // top-right
			v01 := s.Z.At(i+1, j)   // top-left

			idx := 0
			if v00 > level {
				idx |= 1
			}
			if v10 > level {
				idx |= 2
			}
			if v11 > level {
				idx |= 4
			}
			if v01 > level {
				idx |= 8
			}
			if idx == 0 || idx == 15 {
				continue
			}

			x0, x1 := s.Lons[j], s.Lons[j+1]
			y0, y1 := s.Lats[i], s.Lats[i+1]

			// Edge crossings, interpolated left-to-right on horizontal
			// edges and bottom-to-top on vertical ones so that adjacent
			// cells compute bit-identical shared points.
			bottom := func() domain.Vertex {
				return domain.Vertex{Lon: lerp(x0, x1, frac(v00, v10, level)), Lat: y0}
			}
			top := func() domain.Vertex {
				return domain.Vertex{Lon: lerp(x0, x1, frac(v01, v11, level)), Lat: y1}
			}
			left := func() domain.Vertex {
				return domain.Vertex{Lon: x0, Lat: lerp(y0, y1, frac(v00, v01, level))}
			}
			right := func() domain.Vertex {
				return domain.Vertex{Lon: x1, Lat: lerp(y0, y1, frac(v10, v11, level))}
			}

			switch idx {
			case 1:
				ch.add(left(), bottom())
			case 2:
				ch.add(bottom(), right())
			case 3:
				ch.add(left(), right())
			case 4:
				ch.add(right(), top())
			case 5:
				// Saddle: resolve by the cell center value.
				if (v00+v10+v11+v01)/4 > level {
					ch.add(left(), top())
					ch.add(bottom(), right())
				} else {
					ch.add(left(), bottom())
					ch.add(right(), top())
				}
			case 6:
				ch.add(bottom(), top())
			case 7:
				ch.add(left(), top())
			case 8:
				ch.add(left(), top())
			case 9:
				ch.add(bottom(), top())
			case 10:
				if (v00+v10+v11+v01)/4 > level {
					ch.add(left(), bottom())
					ch.add(right(), top())
				} else {
					ch.add(left(), top())
					ch.add(bottom(), right())
				}
			case 11:
				ch.add(right(), top())
			case 12:
				ch.add(left(), right())
			case 13:
				ch.add(bottom(), right())
			case 14:
				ch.add(left(), bottom())
			}
		}
	}

	return ch.segments()
}

// frac returns the interpolation parameter of level between va and vb.
func frac(va, vb, level float64) float64 {
	if vb == va {
		return 0.5
	}
	t := (level - va) / (vb - va)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// endRef locates one open end of a polyline under construction.
type endRef struct {
	id   int
	head bool
}

// chainer joins per-cell line segments into polylines by matching
// endpoint coordinates. Shared edge crossings are computed identically
// in both adjacent cells, so exact equality is sufficient.
type chainer struct {
	lines  map[int][]domain.Vertex
	ends   map[domain.Vertex]endRef
	nextID int
}

func newChainer() *chainer {
	return &chainer{
		lines: make(map[int][]domain.Vertex),
		ends:  make(map[domain.Vertex]endRef),
	}
}

// add joins the segment (p, q) onto existing polylines, merging or
// closing them as ends meet. Zero-length segments are dropped.
func (c *chainer) add(p, q domain.Vertex) {
	if p == q {
		return
	}

	refP, okP := c.ends[p]
	refQ, okQ := c.ends[q]

	switch {
	case !okP && !okQ:
		id := c.nextID
		c.nextID++
		c.lines[id] = []domain.Vertex{p, q}
		c.ends[p] = endRef{id: id, head: true}
		c.ends[q] = endRef{id: id, head: false}

	case okP && !okQ:
		c.extend(refP, p, q)

	case okQ && !okP:
		c.extend(refQ, q, p)

	case refP.id == refQ.id:
		// Both ends belong to the same polyline: close the ring.
		line := c.lines[refP.id]
		c.lines[refP.id] = append(line, line[0])
		delete(c.ends, p)
		delete(c.ends, q)

	default:
		c.merge(refP, refQ, p, q)
	}
}

// extend grows the polyline at the matched end with the new vertex.
func (c *chainer) extend(ref endRef, matched, added domain.Vertex) {
	line := c.lines[ref.id]
	if ref.head {
		line = append([]domain.Vertex{added}, line...)
	} else {
		line = append(line, added)
	}
	c.lines[ref.id] = line
	delete(c.ends, matched)
	c.ends[added] = ref
}

// merge joins two polylines whose ends meet at the segment (p, q).
func (c *chainer) merge(refP, refQ endRef, p, q domain.Vertex) {
	lineP := c.lines[refP.id]
	lineQ := c.lines[refQ.id]

	// Orient so lineP ends at p and lineQ starts at q.
	if refP.head {
		reverse(lineP)
	}
	if !refQ.head {
		reverse(lineQ)
	}

	merged := append(lineP, lineQ...)
	delete(c.lines, refQ.id)
	c.lines[refP.id] = merged

	delete(c.ends, p)
	delete(c.ends, q)
	c.ends[merged[0]] = endRef{id: refP.id, head: true}
	c.ends[merged[len(merged)-1]] = endRef{id: refP.id, head: false}
}

// segments returns the chained polylines in a stable order, dropping
// any degenerate result with fewer than two vertices.
func (c *chainer) segments() []Segment {
	ids := make([]int, 0, len(c.lines))
	for id := range c.lines {
		ids = append(ids, id)
	}
	// Insertion order is monotonically assigned; sort for determinism.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}

	out := make([]Segment, 0, len(ids))
	for _, id := range ids {
		line := c.lines[id]
		if len(line) < 2 {
			continue
		}
		out = append(out, Segment(line))
	}
	return out
}

func reverse(line []domain.Vertex) {
	for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
		line[i], line[j] = line[j], line[i]
	}
}

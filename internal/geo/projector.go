// Package geo provides coordinate projection between geographic WGS84
// coordinates and planar UTM coordinates.
package geo

import (
	"math"

	"github.com/jobrunner/altus/internal/domain"
)

// WGS84 ellipsoid and UTM constants.
const (
	equatorialRadius = 6378137.0
	eccentricity2    = 0.00669437999014 // First eccentricity squared
	scaleFactor      = 0.9996           // UTM central meridian scale (k0)
	falseEasting     = 500000.0
	falseNorthing    = 10000000.0 // Applied on the southern hemisphere
)

// Derived series coefficients for the meridian arc and its inverse
// (Krüger series, same expansion the classic UTM formulas use).
var (
	e2 = eccentricity2
	e4 = e2 * e2
	e6 = e4 * e2

	// e' squared, used in the projection series.
	ep2 = e2 / (1 - e2)

	m1 = 1 - e2/4 - 3*e4/64 - 5*e6/256
	m2 = 3*e2/8 + 3*e4/32 + 45*e6/1024
	m3 = 15*e4/256 + 45*e6/1024
	m4 = 35 * e6 / 3072

	// Rectifying-latitude expansion terms for the inverse mapping.
	ei  = (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	ei2 = ei * ei
	ei3 = ei2 * ei
	ei4 = ei3 * ei
	ei5 = ei4 * ei

	p2 = 3*ei/2 - 27*ei3/32 + 269*ei5/512
	p3 = 21*ei2/16 - 55*ei4/32
	p4 = 151*ei3/96 - 417*ei5/128
	p5 = 1097 * ei4 / 512
)

// Projector maps geographic coordinates onto a fixed UTM zone and back.
// It is stateless after construction and safe for concurrent use.
type Projector struct {
	sourceSRID int
	targetSRID int
	zone       int
	northern   bool
	lon0       float64 // Central meridian in radians
}

// NewProjector creates a projector for a fixed source/target SRID pair.
// Only WGS84 geographic input (EPSG:4326) and UTM targets
// (EPSG:32601-32660 and 32701-32760) are supported.
func NewProjector(sourceSRID, targetSRID int) (*Projector, error) {
	if sourceSRID != domain.SRIDWGS84 {
		return nil, &domain.ValidationError{
			Field:      "source_srid",
			Value:      sourceSRID,
			Constraint: "EPSG:4326",
			Message:    "only WGS84 geographic input is supported",
		}
	}
	zone, northern, ok := domain.UTMZone(targetSRID)
	if !ok {
		return nil, &domain.ValidationError{
			Field:      "target_srid",
			Value:      targetSRID,
			Constraint: "EPSG:32601-32660 or 32701-32760",
			Message:    "target must be a WGS84/UTM zone",
		}
	}
	return &Projector{
		sourceSRID: sourceSRID,
		targetSRID: targetSRID,
		zone:       zone,
		northern:   northern,
		lon0:       centralMeridian(zone),
	}, nil
}

// SourceSRID returns the configured geographic SRID.
func (p *Projector) SourceSRID() int { return p.sourceSRID }

// TargetSRID returns the configured planar SRID.
func (p *Projector) TargetSRID() int { return p.targetSRID }

// Zone returns the UTM zone number.
func (p *Projector) Zone() int { return p.zone }

// Project maps a (longitude, latitude) pair in degrees to UTM
// (easting, northing) in meters. Non-finite input propagates to the
// output; values are never clamped.
func (p *Projector) Project(lon, lat float64) (x, y float64) {
	latRad := lat * math.Pi / 180
	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := sinLat / cosLat

	n := equatorialRadius / math.Sqrt(1-e2*sinLat*sinLat)
	c := ep2 * cosLat * cosLat
	t2 := tanLat * tanLat

	a := cosLat * wrapAngle(lon*math.Pi/180-p.lon0)
	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	m := equatorialRadius * (m1*latRad -
		m2*math.Sin(2*latRad) +
		m3*math.Sin(4*latRad) -
		m4*math.Sin(6*latRad))

	x = scaleFactor*n*(a+
		a3/6*(1-t2+c)+
		a5/120*(5-18*t2+t2*t2+72*c-58*ep2)) + falseEasting

	y = scaleFactor * (m + n*tanLat*(a2/2+
		a4/24*(5-t2+9*c+4*c*c)+
		a6/720*(61-58*t2+t2*t2+600*c-330*ep2)))

	if !p.northern {
		y += falseNorthing
	}
	return x, y
}

// Unproject maps UTM (easting, northing) in meters back to a
// (longitude, latitude) pair in degrees.
func (p *Projector) Unproject(x, y float64) (lon, lat float64) {
	dx := x - falseEasting
	if !p.northern {
		y -= falseNorthing
	}

	m := y / scaleFactor
	mu := m / (equatorialRadius * m1)

	phi := mu +
		p2*math.Sin(2*mu) +
		p3*math.Sin(4*mu) +
		p4*math.Sin(6*mu) +
		p5*math.Sin(8*mu)

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := sinPhi / cosPhi
	t2 := tanPhi * tanPhi
	t4 := t2 * t2

	es := 1 - e2*sinPhi*sinPhi
	n := equatorialRadius / math.Sqrt(es)
	r := (1 - e2) / es
	c := ep2 * cosPhi * cosPhi
	c2 := c * c

	d := dx / (n * scaleFactor)
	d2 := d * d
	d3 := d2 * d
	d4 := d3 * d
	d5 := d4 * d
	d6 := d5 * d

	latRad := phi - (tanPhi/r)*(d2/2-
		d4/24*(5+3*t2+10*c-4*c2-9*ep2)+
		d6/720*(61+90*t2+298*c+45*t4-252*ep2-3*c2))

	lonRad := (d -
		d3/6*(1+2*t2+c) +
		d5/120*(5-2*c+28*t2-3*c2+8*ep2+24*t4)) / cosPhi

	lat = latRad * 180 / math.Pi
	lon = wrapAngle(lonRad+p.lon0) * 180 / math.Pi
	return lon, lat
}

// centralMeridian returns the central meridian of a UTM zone in radians.
func centralMeridian(zone int) float64 {
	deg := float64((zone-1)*6 - 180 + 3)
	return deg * math.Pi / 180
}

// wrapAngle normalizes an angle in radians to (-pi, pi].
// Non-finite input is returned unchanged so NaN/Inf propagate.
func wrapAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return a
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

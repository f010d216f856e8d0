package dagsrulle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// dmsRe matches exiftool's composite coordinate form: 53 deg 20' 24.00" N
var dmsRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+deg\s+(\d+(?:\.\d+)?)'\s+(\d+(?:\.\d+)?)"\s*([NSEW])$`)

// dmsToDecimal converts degrees/minutes/seconds plus a hemisphere reference
// to signed decimal degrees. South and west are negative.
func dmsToDecimal(deg, min, sec float64, ref string) float64 {
	v := deg + min/60.0 + sec/3600.0
	if ref == "S" || ref == "W" {
		v = -v
	}
	return v
}

// parseGPSCoord parses a single exiftool coordinate value, accepting either
// a plain signed decimal or the DMS composite string.
func parseGPSCoord(raw string, ref string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if m := dmsRe.FindStringSubmatch(raw); m != nil {
		deg, err1 := strconv.ParseFloat(m[1], 64)
		min, err2 := strconv.ParseFloat(m[2], 64)
		sec, err3 := strconv.ParseFloat(m[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, fmt.Errorf("malformed DMS tuple in %q", raw)
		}
		return dmsToDecimal(deg, min, sec, m[4]), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse coordinate %q: %w", raw, err)
	}
	if ref == "S" || ref == "W" {
		v = -v
	}
	return v, nil
}

// gpsLocation extracts a "lat, lon" decimal string from image metadata.
// Best-effort: any missing or malformed field yields "", never an error.
func gpsLocation(fi exiftool.FileMetadata) string {
	latRaw, err := fi.GetString("GPSLatitude")
	if err != nil {
		return ""
	}
	lonRaw, err := fi.GetString("GPSLongitude")
	if err != nil {
		return ""
	}

	latRef, _ := fi.GetString("GPSLatitudeRef")
	lonRef, _ := fi.GetString("GPSLongitudeRef")

	lat, err := parseGPSCoord(latRaw, normalizeRef(latRef))
	if err != nil {
		klog.V(1).Infof("unusable latitude %q: %v", latRaw, err)
		return ""
	}
	lon, err := parseGPSCoord(lonRaw, normalizeRef(lonRef))
	if err != nil {
		klog.V(1).Infof("unusable longitude %q: %v", lonRaw, err)
		return ""
	}

	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// normalizeRef reduces exiftool hemisphere values ("S", "South") to a letter.
func normalizeRef(ref string) string {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return ""
	}
	return ref[:1]
}

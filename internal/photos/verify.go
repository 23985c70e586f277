package photos

import (
	"net/url"
	"strings"
	"time"
)

// PhotoRecord is the slim product projection the verification report reads.
type PhotoRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PhotoURL  *string   `json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// VerificationReport summarizes how the owner's products relate to stored
// photos: coverage counts, suspicious URLs and the hosts the URLs point at.
type VerificationReport struct {
	TotalProducts         int            `json:"total_products"`
	ProductsWithPhotos    int            `json:"products_with_photos"`
	ProductsWithoutPhotos int            `json:"products_without_photos"`
	InvalidPhotoURLs      int            `json:"invalid_photo_urls"`
	RecentProducts        []PhotoRecord  `json:"recent_products"`
	PhotoURLPatterns      map[string]int `json:"photo_url_patterns"`
}

const recentProductLimit = 10

// VerifyPhotoRecords computes the report over records ordered newest first.
// A URL counts as invalid when it does not start with http or does not point
// at storageHost; an empty storageHost skips the host check.
func VerifyPhotoRecords(records []PhotoRecord, storageHost string) VerificationReport {
	report := VerificationReport{
		TotalProducts:    len(records),
		RecentProducts:   []PhotoRecord{},
		PhotoURLPatterns: map[string]int{},
	}

	for _, rec := range records {
		raw := ""
		if rec.PhotoURL != nil {
			raw = strings.TrimSpace(*rec.PhotoURL)
		}
		if raw == "" {
			continue
		}
		report.ProductsWithPhotos++

		if !strings.HasPrefix(raw, "http") ||
			(storageHost != "" && !strings.Contains(raw, storageHost)) {
			report.InvalidPhotoURLs++
		}

		if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
			report.PhotoURLPatterns[u.Hostname()]++
		} else {
			report.PhotoURLPatterns["invalid-url"]++
		}
	}

	report.ProductsWithoutPhotos = report.TotalProducts - report.ProductsWithPhotos

	if len(records) > recentProductLimit {
		records = records[:recentProductLimit]
	}
	report.RecentProducts = append(report.RecentProducts, records...)

	return report
}

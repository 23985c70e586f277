package photos

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photoRecord(name string, photoURL *string) PhotoRecord {
	return PhotoRecord{ID: name, Name: name, PhotoURL: photoURL, CreatedAt: time.Now()}
}

func urlPtr(s string) *string { return &s }

func TestVerifyPhotoRecordsCounts(t *testing.T) {
	records := []PhotoRecord{
		photoRecord("serum", urlPtr("https://storage.glowstash.app/product-photos/7/a.jpg")),
		photoRecord("toner", nil),
		photoRecord("cream", urlPtr("   ")),
		photoRecord("mask", urlPtr("https://storage.glowstash.app/product-photos/7/b.png")),
	}

	report := VerifyPhotoRecords(records, "storage.glowstash.app")

	assert.Equal(t, 4, report.TotalProducts)
	assert.Equal(t, 2, report.ProductsWithPhotos)
	assert.Equal(t, 2, report.ProductsWithoutPhotos)
	assert.Equal(t, 0, report.InvalidPhotoURLs)
}

func TestVerifyPhotoRecordsFlagsForeignAndNonHTTPURLs(t *testing.T) {
	records := []PhotoRecord{
		photoRecord("ok", urlPtr("https://storage.glowstash.app/product-photos/7/a.jpg")),
		photoRecord("foreign", urlPtr("https://cdn.elsewhere.com/x.jpg")),
		photoRecord("scheme", urlPtr("ftp://storage.glowstash.app/x.jpg")),
	}

	report := VerifyPhotoRecords(records, "storage.glowstash.app")

	assert.Equal(t, 2, report.InvalidPhotoURLs)
}

func TestVerifyPhotoRecordsEmptyHostSkipsHostCheck(t *testing.T) {
	records := []PhotoRecord{
		photoRecord("anywhere", urlPtr("https://cdn.elsewhere.com/x.jpg")),
	}

	report := VerifyPhotoRecords(records, "")

	assert.Equal(t, 0, report.InvalidPhotoURLs)
}

func TestVerifyPhotoRecordsURLPatterns(t *testing.T) {
	records := []PhotoRecord{
		photoRecord("a", urlPtr("https://storage.glowstash.app/p/1.jpg")),
		photoRecord("b", urlPtr("https://storage.glowstash.app/p/2.jpg")),
		photoRecord("c", urlPtr("https://cdn.elsewhere.com/3.jpg")),
		photoRecord("d", urlPtr("not a url at all")),
	}

	report := VerifyPhotoRecords(records, "storage.glowstash.app")

	assert.Equal(t, map[string]int{
		"storage.glowstash.app": 2,
		"cdn.elsewhere.com":     1,
		"invalid-url":           1,
	}, report.PhotoURLPatterns)
}

func TestVerifyPhotoRecordsCapsRecentProducts(t *testing.T) {
	var records []PhotoRecord
	for i := 0; i < 15; i++ {
		records = append(records, photoRecord(fmt.Sprintf("p%02d", i), nil))
	}

	report := VerifyPhotoRecords(records, "")

	require.Len(t, report.RecentProducts, 10)
	// records arrive newest first; the cap keeps the head of the list
	assert.Equal(t, "p00", report.RecentProducts[0].Name)
	assert.Equal(t, "p09", report.RecentProducts[9].Name)
}

func TestVerifyPhotoRecordsEmptyShelf(t *testing.T) {
	report := VerifyPhotoRecords(nil, "storage.glowstash.app")

	assert.Equal(t, 0, report.TotalProducts)
	assert.Empty(t, report.RecentProducts)
	assert.Empty(t, report.PhotoURLPatterns)
}

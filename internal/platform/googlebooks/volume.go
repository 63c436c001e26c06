package googlebooks

import "bookshelf/internal/entity"

// VolumesResponse matches GET /volumes.
type VolumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume matches GET /volumes/{id} and the items of a volumes search.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	AccessInfo struct {
		Viewability      string `json:"viewability"`
		PublicDomain     bool   `json:"publicDomain"`
		AccessViewStatus string `json:"accessViewStatus"`
		WebReaderLink    string `json:"webReaderLink"`
	} `json:"accessInfo"`
	SaleInfo struct {
		Saleability string `json:"saleability"`
		BuyLink     string `json:"buyLink"`
	} `json:"saleInfo"`
}

type VolumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	AverageRating float64  `json:"averageRating"`
	RatingsCount  int      `json:"ratingsCount"`
	Language      string   `json:"language"`
	PreviewLink   string   `json:"previewLink"`
	ImageLinks    struct {
		SmallThumbnail string `json:"smallThumbnail"`
		Thumbnail      string `json:"thumbnail"`
	} `json:"imageLinks"`
}

// Record converts the volume into the catalog record the library stores.
func (v Volume) Record() entity.Record {
	info := v.VolumeInfo

	thumb := info.ImageLinks.Thumbnail
	if thumb == "" {
		thumb = info.ImageLinks.SmallThumbnail
	}

	var ids []entity.Identifier
	for _, id := range info.IndustryIdentifiers {
		ids = append(ids, entity.Identifier{Type: id.Type, Identifier: id.Identifier})
	}

	r := entity.Record{
		ID:                  v.ID,
		Title:               info.Title,
		Subtitle:            info.Subtitle,
		Authors:             info.Authors,
		Publisher:           info.Publisher,
		Description:         info.Description,
		ThumbnailURL:        thumb,
		PageCount:           info.PageCount,
		Categories:          info.Categories,
		PublishedDate:       info.PublishedDate,
		AverageRating:       info.AverageRating,
		RatingsCount:        info.RatingsCount,
		Language:            info.Language,
		PreviewLink:         info.PreviewLink,
		IndustryIdentifiers: ids,
		AccessInfo: entity.AccessInfo{
			Viewability:      v.AccessInfo.Viewability,
			PublicDomain:     v.AccessInfo.PublicDomain,
			AccessViewStatus: v.AccessInfo.AccessViewStatus,
			WebReaderLink:    v.AccessInfo.WebReaderLink,
		},
		SaleInfo: entity.SaleInfo{
			Saleability: v.SaleInfo.Saleability,
			BuyLink:     v.SaleInfo.BuyLink,
		},
	}
	return r.Normalized()
}

// Records converts every item of a search response.
func (r *VolumesResponse) Records() []entity.Record {
	out := make([]entity.Record, 0, len(r.Items))
	for _, v := range r.Items {
		out = append(out, v.Record())
	}
	return out
}

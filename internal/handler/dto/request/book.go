package request

type CreateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	ISBN        string `json:"isbn" binding:"required"`
	Genre       string `json:"genre"`
	Summary     string `json:"summary"`
	CoverURL    string `json:"cover_url"`
	TotalCopies int    `json:"total_copies" binding:"min=0"`
}

// UpdateBookRequest carries only the fields the caller wants changed; nil
// leaves the stored value untouched.
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	ISBN        *string `json:"isbn,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Summary     *string `json:"summary,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
	TotalCopies *int    `json:"total_copies,omitempty"`
}

type ListBooksRequest struct {
	Search   string `form:"search"`
	Author   string `form:"author"`
	Genre    string `form:"genre"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

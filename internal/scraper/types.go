package scraper

// Фолбэк-подписи совпадают с тем, что сайт отдаёт русскоязычным клиентам.
const (
	genericTitle       = "Base"
	genericDescription = "База с ClashCodes"
	copyDescription    = "Копируй ссылку в игру."
)

// Candidate — промежуточная карточка из листинга: ссылка ещё может вести на
// статью, а не на саму базу.
type Candidate struct {
	Link          string
	ImageURL      string
	Title         string
	Description   string
	Rating        float64
	RatingDisplay string
	ArticleURL    string
}

// Record — финальная запись для клиента.
type Record struct {
	Link          string  `json:"link"`
	ImageURL      string  `json:"image_url"`
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	Rating        float64 `json:"rating"`
	RatingDisplay string  `json:"rating_display"`
	ArticleURL    string  `json:"article_url,omitempty"`
}

// Record конвертирует кандидата как есть, с сохранением article_url.
func (c *Candidate) Record() *Record {
	return &Record{
		Link:          c.Link,
		ImageURL:      c.ImageURL,
		Type:          c.Title,
		Description:   c.Description,
		Rating:        c.Rating,
		RatingDisplay: c.RatingDisplay,
		ArticleURL:    c.ArticleURL,
	}
}

// Synthesize строит запись напрямую из кандидата, когда статья недоступна
// или пуста. article_url опускается: лучшей ссылки уже не будет.
func (c *Candidate) Synthesize() *Record {
	return &Record{
		Link:          c.Link,
		ImageURL:      c.ImageURL,
		Type:          c.Title,
		Description:   c.Description,
		Rating:        c.Rating,
		RatingDisplay: c.RatingDisplay,
	}
}

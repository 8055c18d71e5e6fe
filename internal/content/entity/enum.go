package entity

type ArticleStatus int16

const (
	// ArticleStatusUnknown is mean status is not known / not set.
	ArticleStatusUnknown ArticleStatus = 0

	// ArticleStatusDraft mean article is visible to its author only.
	ArticleStatusDraft ArticleStatus = 1

	// ArticleStatusPublished mean article is publicly readable.
	ArticleStatusPublished ArticleStatus = 2
)

func (as ArticleStatus) String() string {
	switch as {
	case ArticleStatusDraft:
		return "Draft"
	case ArticleStatusPublished:
		return "Published"
	default:
		return "Unknown"
	}
}

func (as ArticleStatus) Ensure() ArticleStatus {
	switch as {
	case ArticleStatusDraft:
		return ArticleStatusDraft
	case ArticleStatusPublished:
		return ArticleStatusPublished
	default:
		return ArticleStatusUnknown
	}
}

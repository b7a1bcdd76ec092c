package config

const (
	// MaxTitleLength is the maximum length for document and section titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxVersionLength is the maximum length for document and BOM versions.
	MaxVersionLength = 50

	// MaxComponentCodeLength is the maximum length for part codes.
	MaxComponentCodeLength = 64

	// MaxLanguageNameLength is the maximum length for language display names.
	MaxLanguageNameLength = 100

	// MaxModuleContentBytes caps a module payload (original or translated).
	// Large media is uploaded separately; content only carries references.
	MaxModuleContentBytes = 1 << 20

	// DefaultSearchLimit and MaxSearchLimit bound component searches.
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100

	// MaxTranslateBatch is the most strings sent in one translation request.
	MaxTranslateBatch = 200
)

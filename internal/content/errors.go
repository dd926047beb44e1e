package content

import "errors"

var (
	// ErrContentRootMissing indicates the configured content directory does not exist.
	ErrContentRootMissing = errors.New("content: content root missing")
	// ErrDocumentExists indicates scaffolding would overwrite an existing file.
	ErrDocumentExists = errors.New("content: document already exists")
	// ErrTitleRequired indicates scaffolding was invoked without a title.
	ErrTitleRequired = errors.New("content: title is required")
	// ErrUnknownCollection indicates a collection kind with no configured rules.
	ErrUnknownCollection = errors.New("content: unknown collection")
)

package view

import (
	"errors"

	"github.com/rickgao/bazaarsetu/internal/i18n"
	"github.com/rickgao/bazaarsetu/internal/model"
)

// NoticeKind classifies an inline message shown in place of data.
type NoticeKind string

const (
	NetworkFailure NoticeKind = "network_failure"
	NoData         NoticeKind = "no_data"
)

// Notice is a localized inline message.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// failureNotice maps a fetch error to a notice. Missing resources count as
// no data; everything else is a network failure.
func failureNotice(r *i18n.Resolver, err error, failedKey string) *Notice {
	if errors.Is(err, model.ErrNotFound) {
		return noDataNotice(r, "no_data")
	}
	return &Notice{Kind: NetworkFailure, Message: r.Message(failedKey)}
}

func noDataNotice(r *i18n.Resolver, key string) *Notice {
	return &Notice{Kind: NoData, Message: r.Message(key)}
}

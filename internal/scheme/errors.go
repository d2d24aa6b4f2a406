package scheme

import (
	"errors"

	"github.com/zjrosen/orchard/internal/registry"
)

// Link validation errors, reported in this order by CheckConnect.
var (
	ErrTopology         = errors.New("topology error")
	ErrChannelNotFound  = registry.ErrChannelNotFound
	ErrAmbiguousChannel = registry.ErrAmbiguousChannel
	ErrIncompatibleType = errors.New("incompatible channel type")
	ErrDuplicatedLink   = errors.New("duplicated link")
	ErrSinkOccupied     = errors.New("sink channel occupied")
)

// Container errors
var (
	ErrAlreadyInGraph = errors.New("element already belongs to a graph")
	ErrNotInGraph     = errors.New("element does not belong to this graph")
	ErrNodeHasLinks   = errors.New("node is still referenced by links")
	ErrChannelInUse   = errors.New("channel is still referenced by links")
	ErrIndexRange     = errors.New("index out of range")
	ErrNotMeta        = errors.New("operation requires a meta node")
	ErrFixedChannels  = errors.New("node channels cannot be edited")
)

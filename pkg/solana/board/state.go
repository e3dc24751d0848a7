package board

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/blockchan/blockchan-server/pkg/solana/binary"
)

const (
	// AccountDiscriminatorSize is the number of bytes reserved at the start
	// of every record account, ahead of the serialized record itself.
	AccountDiscriminatorSize = 8

	// MinAccountSize is the smallest allocation that can hold a record.
	// Smaller program accounts are not records and are skipped on scan.
	MinAccountSize = 50
)

// ErrInvalidAccountData is returned when account data cannot be decoded as
// the requested record type.
var ErrInvalidAccountData = errors.New("invalid account data")

// PostAccount is the on-chain layout of a post record, following the
// discriminator.
//
//	creator:      [32]byte
//	title:        u32-LE length prefixed string
//	content:      u32-LE length prefixed string
//	votes:        i32-LE
//	commentCount: u32-LE
//	createdAt:    u64-LE (unix seconds)
type PostAccount struct {
	Creator      ed25519.PublicKey
	Title        string
	Content      string
	Votes        int32
	CommentCount uint32
	CreatedAt    uint64
}

func (a *PostAccount) Size() int {
	return AccountDiscriminatorSize +
		ed25519.PublicKeySize +
		binary.StringSize(a.Title) +
		binary.StringSize(a.Content) +
		4 + 4 + 8
}

func (a *PostAccount) Marshal() []byte {
	b := make([]byte, a.Size())

	offset := AccountDiscriminatorSize
	binary.PutKey32(b[offset:], a.Creator, &offset)
	binary.PutString(b[offset:], a.Title, &offset)
	binary.PutString(b[offset:], a.Content, &offset)
	binary.PutInt32(b[offset:], a.Votes, &offset)
	binary.PutUint32(b[offset:], a.CommentCount, &offset)
	binary.PutUint64(b[offset:], a.CreatedAt, &offset)

	return b
}

// Unmarshal decodes a post record from raw account data. Record accounts
// are often allocated larger than the serialized record, so trailing bytes
// are ignored.
func (a *PostAccount) Unmarshal(b []byte) error {
	if len(b) < MinAccountSize {
		return ErrInvalidAccountData
	}

	offset := AccountDiscriminatorSize
	if !binary.ReadKey32(b, &a.Creator, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadString(b, &a.Title, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadString(b, &a.Content, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadInt32(b, &a.Votes, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadUint32(b, &a.CommentCount, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadUint64(b, &a.CreatedAt, &offset) {
		return ErrInvalidAccountData
	}

	return nil
}

// CommentAccount is the on-chain layout of a comment record, following the
// discriminator.
//
//	postID:    u32-LE length prefixed string
//	creator:   [32]byte
//	content:   u32-LE length prefixed string
//	createdAt: u64-LE (unix seconds)
type CommentAccount struct {
	PostID    string
	Creator   ed25519.PublicKey
	Content   string
	CreatedAt uint64
}

func (a *CommentAccount) Size() int {
	return AccountDiscriminatorSize +
		binary.StringSize(a.PostID) +
		ed25519.PublicKeySize +
		binary.StringSize(a.Content) +
		8
}

func (a *CommentAccount) Marshal() []byte {
	b := make([]byte, a.Size())

	offset := AccountDiscriminatorSize
	binary.PutString(b[offset:], a.PostID, &offset)
	binary.PutKey32(b[offset:], a.Creator, &offset)
	binary.PutString(b[offset:], a.Content, &offset)
	binary.PutUint64(b[offset:], a.CreatedAt, &offset)

	return b
}

// Unmarshal decodes a comment record from raw account data, ignoring any
// trailing bytes.
func (a *CommentAccount) Unmarshal(b []byte) error {
	if len(b) < MinAccountSize {
		return ErrInvalidAccountData
	}

	offset := AccountDiscriminatorSize
	if !binary.ReadString(b, &a.PostID, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadKey32(b, &a.Creator, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadString(b, &a.Content, &offset) {
		return ErrInvalidAccountData
	}
	if !binary.ReadUint64(b, &a.CreatedAt, &offset) {
		return ErrInvalidAccountData
	}

	return nil
}

// CommentAccountSize returns the allocation for a new comment record
// holding the given post id and content.
func CommentAccountSize(postID, content string) uint64 {
	a := CommentAccount{PostID: postID, Content: content}
	return uint64(a.Size())
}

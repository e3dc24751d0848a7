package board

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/blockchan/blockchan-server/pkg/solana"
	"github.com/blockchan/blockchan-server/pkg/solana/binary"
	"github.com/blockchan/blockchan-server/pkg/solana/system"
)

// Command is the one byte opcode at the start of every instruction
// addressed to the board program.
type Command uint8

const (
	CommandCreatePost Command = iota
	CommandCreateComment
	CommandLikePost
)

// CreatePost initializes a post record account owned by the board program.
//
// The post account must sign because the program creates it through an
// inner system program call.
func CreatePost(program, user, post, feeWallet ed25519.PublicKey, title, content string) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] User creating the post
	//   1. [WRITE, SIGNER] Post record account
	//   2. [] System program
	//   3. [WRITE] Fee collection wallet
	return solana.NewInstruction(
		program,
		encodeCommand(CommandCreatePost, title, content),
		solana.NewAccountMeta(user, true),
		solana.NewAccountMeta(post, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewAccountMeta(feeWallet, false),
	)
}

// CreateComment appends a comment record to a post. The comment account is
// created ahead of this instruction by a system program CreateAccount, so
// it does not sign here.
func CreateComment(program, user, comment, post, postOwner ed25519.PublicKey, postID, content string) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] User creating the comment
	//   1. [WRITE] Comment record account
	//   2. [WRITE] Post being commented on
	//   3. [WRITE] Post owner receiving the engagement fee
	//   4. [] System program
	return solana.NewInstruction(
		program,
		encodeCommand(CommandCreateComment, postID, content),
		solana.NewAccountMeta(user, true),
		solana.NewAccountMeta(comment, false),
		solana.NewAccountMeta(post, false),
		solana.NewAccountMeta(postOwner, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}

// LikePost increments the vote count on a post.
func LikePost(program, user, post, postOwner ed25519.PublicKey, postID string) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] User liking the post
	//   1. [WRITE] Post being liked
	//   2. [WRITE] Post owner receiving the engagement fee
	//   3. [] System program
	return solana.NewInstruction(
		program,
		encodeCommand(CommandLikePost, postID),
		solana.NewAccountMeta(user, true),
		solana.NewAccountMeta(post, false),
		solana.NewAccountMeta(postOwner, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
	)
}

type DecompiledCreatePost struct {
	User      ed25519.PublicKey
	Post      ed25519.PublicKey
	FeeWallet ed25519.PublicKey

	Title   string
	Content string
}

func DecompileCreatePost(program ed25519.PublicKey, m solana.Message, index int) (*DecompiledCreatePost, error) {
	i, err := instructionForProgram(program, m, index)
	if err != nil {
		return nil, err
	}
	if len(i.Accounts) != 4 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	v := &DecompiledCreatePost{
		User:      m.Accounts[i.Accounts[0]],
		Post:      m.Accounts[i.Accounts[1]],
		FeeWallet: m.Accounts[i.Accounts[3]],
	}
	if err := decodeCommand(i.Data, CommandCreatePost, &v.Title, &v.Content); err != nil {
		return nil, err
	}

	return v, nil
}

type DecompiledCreateComment struct {
	User      ed25519.PublicKey
	Comment   ed25519.PublicKey
	Post      ed25519.PublicKey
	PostOwner ed25519.PublicKey

	PostID  string
	Content string
}

func DecompileCreateComment(program ed25519.PublicKey, m solana.Message, index int) (*DecompiledCreateComment, error) {
	i, err := instructionForProgram(program, m, index)
	if err != nil {
		return nil, err
	}
	if len(i.Accounts) != 5 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	v := &DecompiledCreateComment{
		User:      m.Accounts[i.Accounts[0]],
		Comment:   m.Accounts[i.Accounts[1]],
		Post:      m.Accounts[i.Accounts[2]],
		PostOwner: m.Accounts[i.Accounts[3]],
	}
	if err := decodeCommand(i.Data, CommandCreateComment, &v.PostID, &v.Content); err != nil {
		return nil, err
	}

	return v, nil
}

type DecompiledLikePost struct {
	User      ed25519.PublicKey
	Post      ed25519.PublicKey
	PostOwner ed25519.PublicKey

	PostID string
}

func DecompileLikePost(program ed25519.PublicKey, m solana.Message, index int) (*DecompiledLikePost, error) {
	i, err := instructionForProgram(program, m, index)
	if err != nil {
		return nil, err
	}
	if len(i.Accounts) != 4 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	v := &DecompiledLikePost{
		User:      m.Accounts[i.Accounts[0]],
		Post:      m.Accounts[i.Accounts[1]],
		PostOwner: m.Accounts[i.Accounts[2]],
	}
	if err := decodeCommand(i.Data, CommandLikePost, &v.PostID); err != nil {
		return nil, err
	}

	return v, nil
}

func instructionForProgram(program ed25519.PublicKey, m solana.Message, index int) (solana.CompiledInstruction, error) {
	if index >= len(m.Instructions) {
		return solana.CompiledInstruction{}, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if string(m.Accounts[i.ProgramIndex]) != string(program) {
		return solana.CompiledInstruction{}, solana.ErrIncorrectProgram
	}

	return i, nil
}

// encodeCommand produces the opcode byte followed by each field as a
// u32-LE length-prefixed UTF-8 string.
func encodeCommand(cmd Command, fields ...string) []byte {
	size := 1
	for _, f := range fields {
		size += binary.StringSize(f)
	}

	data := make([]byte, size)

	var offset int
	binary.PutUint8(data, uint8(cmd), &offset)
	for _, f := range fields {
		binary.PutString(data[offset:], f, &offset)
	}

	return data
}

func decodeCommand(data []byte, cmd Command, fields ...*string) error {
	var offset int
	var opcode uint8
	if !binary.ReadUint8(data, &opcode, &offset) || Command(opcode) != cmd {
		return solana.ErrIncorrectInstruction
	}

	for _, f := range fields {
		if !binary.ReadString(data, f, &offset) {
			return errors.New("instruction data truncated")
		}
	}

	return nil
}

package board

// Zobrist keys. A fixed seed keeps hashes identical across runs, which the
// repetition tests rely on.
var (
	zobristPiece      [12][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	initZobrist()
}

// xorshift64* generator
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}

	for p := WhitePawn; p < NoPiece; p++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[p][sq] = rng.next()
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// computeHash derives the key from scratch. Apply maintains it incrementally;
// this is used after FEN parsing and by tests.
func (b *Board) computeHash() uint64 {
	var h uint64
	for sq, p := range b.squares {
		if p != NoPiece {
			h ^= zobristPiece[p][sq]
		}
	}
	if b.sideToMove == Black {
		h ^= zobristSideToMove
	}
	h ^= zobristCastling[b.castling]
	if b.enPassantHashed() {
		h ^= zobristEnPassant[b.enPassant.File()]
	}
	return h
}

// enPassantHashed reports whether the en-passant file is part of the key.
// It is only when a pawn of the side to move stands next to the pushed pawn;
// otherwise the position is the same as one without a target square.
func (b *Board) enPassantHashed() bool {
	if b.enPassant == NoSquare {
		return false
	}
	dr := -1
	if b.sideToMove == Black {
		dr = 1
	}
	pawn := NewPiece(Pawn, b.sideToMove)
	for _, df := range [2]int{-1, 1} {
		if sq, ok := b.enPassant.offset(df, dr); ok && b.squares[sq] == pawn {
			return true
		}
	}
	return false
}

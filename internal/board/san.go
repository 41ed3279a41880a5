package board

import (
	"fmt"
	"strings"
)

// SAN renders a legal move in Standard Algebraic Notation, including the
// check or mate suffix.
func (b *Board) SAN(m Move) string {
	if m.IsNone() {
		return "-"
	}

	var sb strings.Builder
	switch m.Kind {
	case CastleKingSide:
		sb.WriteString("O-O")
	case CastleQueenSide:
		sb.WriteString("O-O-O")
	default:
		pt := m.Piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(b.disambiguation(m))
		}
		if m.IsCapture() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.PromoteTo])
		}
	}

	undo := b.Apply(m)
	them := b.sideToMove
	if b.IsInCheck(them) {
		if b.HasLegalMoves(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	b.Undo(undo)

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other legal moves of the same piece type to the same square.
func (b *Board) disambiguation(m Move) string {
	var sameFile, sameRank, ambiguous bool
	for _, o := range b.LegalMoves(m.Piece.Color()) {
		if o.To != m.To || o.From == m.From || o.Piece != m.Piece {
			continue
		}
		ambiguous = true
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// ParseSAN finds the legal move of the side to move whose SAN matches s.
// Check and annotation suffixes are ignored, and "0-0" is accepted for "O-O".
func (b *Board) ParseSAN(s string) (Move, error) {
	want := normalizeSAN(s)
	if want == "" {
		return NoMove, fmt.Errorf("empty SAN")
	}
	for _, m := range b.LegalMoves(b.sideToMove) {
		if normalizeSAN(b.SAN(m)) == want {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("no legal move matches SAN %q", s)
}

func normalizeSAN(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")
	return strings.ReplaceAll(s, "0", "O")
}

package evaluator

import (
	"fmt"
	"sort"

	"github.com/cardroomlabs/holdem/internal/deck"
)

// Evaluate5 ranks a 5-card hand. Categories are probed from strongest to
// weakest and the first match wins: a hand qualifying for a higher
// category always also satisfies naive tests for lower ones (four of a
// kind also contains three of a kind), so only the top match is valid.
//
// Malformed input (wrong card count, duplicate cards) can only arrive
// through a caller bug and panics.
func Evaluate5(cards []deck.Card) HandRank {
	checkCards(cards, 5)

	counts := rankCounts(cards)
	flush := isFlush(cards)
	straightHigh, straight := straightHigh(counts)

	switch {
	case flush && straight:
		return HandRank{Category: StraightFlush, Tiebreak: []deck.Rank{straightHigh}}
	case largestGroup(counts) == 4:
		return HandRank{Category: FourOfAKind, Tiebreak: groupedTiebreak(counts)}
	case largestGroup(counts) == 3 && distinctRanks(counts) == 2:
		return HandRank{Category: FullHouse, Tiebreak: groupedTiebreak(counts)}
	case flush:
		return HandRank{Category: Flush, Tiebreak: ranksDescending(counts)}
	case straight:
		return HandRank{Category: Straight, Tiebreak: []deck.Rank{straightHigh}}
	case largestGroup(counts) == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreak: groupedTiebreak(counts)}
	case pairCount(counts) == 2:
		return HandRank{Category: TwoPair, Tiebreak: groupedTiebreak(counts)}
	case pairCount(counts) == 1:
		return HandRank{Category: OnePair, Tiebreak: groupedTiebreak(counts)}
	default:
		return HandRank{Category: HighCard, Tiebreak: ranksDescending(counts)}
	}
}

// BestHand enumerates all 21 five-card subsets of 7 cards and returns the
// strongest rank together with the chosen five cards. Exact ties between
// subsets keep the first subset found; ties between players are preserved
// by Compare returning 0 on identical ranks.
func BestHand(cards []deck.Card) (HandRank, []deck.Card) {
	checkCards(cards, 7)

	var (
		best      HandRank
		bestCards []deck.Card
	)

	// Each subset is the 7 cards minus a dropped pair (i, j).
	for i := 0; i < len(cards)-1; i++ {
		for j := i + 1; j < len(cards); j++ {
			five := make([]deck.Card, 0, 5)
			for k, c := range cards {
				if k != i && k != j {
					five = append(five, c)
				}
			}
			rank := Evaluate5(five)
			if bestCards == nil || Compare(rank, best) > 0 {
				best = rank
				bestCards = five
			}
		}
	}

	return best, bestCards
}

// checkCards enforces the evaluator's input contract.
func checkCards(cards []deck.Card, want int) {
	if len(cards) != want {
		panic(fmt.Sprintf("evaluator: expected %d cards, got %d", want, len(cards)))
	}
	var seen uint64
	for _, c := range cards {
		bit := uint64(1) << uint(int(c.Suit)*13+int(c.Rank-deck.Two))
		if seen&bit != 0 {
			panic(fmt.Sprintf("evaluator: duplicate card %s", c))
		}
		seen |= bit
	}
}

// rankCounts counts how many cards of each rank the hand holds.
func rankCounts(cards []deck.Card) map[deck.Rank]int {
	counts := make(map[deck.Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

func isFlush(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightHigh reports whether the 5 distinct ranks form a straight and,
// if so, its high rank. The wheel (A-2-3-4-5) counts the Ace low and
// reports Five as its high card.
func straightHigh(counts map[deck.Rank]int) (deck.Rank, bool) {
	if len(counts) != 5 {
		return 0, false
	}

	ranks := make([]deck.Rank, 0, 5)
	for r := range counts {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })

	// Wheel: A plus 2-3-4-5.
	if ranks[4] == deck.Ace && ranks[0] == deck.Two && ranks[1] == deck.Three &&
		ranks[2] == deck.Four && ranks[3] == deck.Five {
		return deck.Five, true
	}

	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return 0, false
		}
	}
	return ranks[4], true
}

func largestGroup(counts map[deck.Rank]int) int {
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	return max
}

func distinctRanks(counts map[deck.Rank]int) int {
	return len(counts)
}

func pairCount(counts map[deck.Rank]int) int {
	pairs := 0
	for _, n := range counts {
		if n == 2 {
			pairs++
		}
	}
	return pairs
}

// groupedTiebreak orders repeated-rank groups first (group size
// descending, then rank descending), followed by remaining kickers in
// descending rank order.
func groupedTiebreak(counts map[deck.Rank]int) []deck.Rank {
	ranks := make([]deck.Rank, 0, len(counts))
	for r := range counts {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if counts[ranks[i]] != counts[ranks[j]] {
			return counts[ranks[i]] > counts[ranks[j]]
		}
		return ranks[i] > ranks[j]
	})
	return ranks
}

// ranksDescending returns all 5 ranks sorted high to low, used for flush
// and high-card tiebreaks.
func ranksDescending(counts map[deck.Rank]int) []deck.Rank {
	ranks := make([]deck.Rank, 0, 5)
	for r, n := range counts {
		for i := 0; i < n; i++ {
			ranks = append(ranks, r)
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })
	return ranks
}

package domain

// ApplyVote toggles a voter's tri-state vote on a likes/dislikes pair and
// returns the updated sets plus the voter's resulting state.
//
// Voting in the direction of the current state clears it; voting in the
// opposite direction moves the voter across. The voter id never appears
// in both sets.
func ApplyVote(likes, dislikes []string, voterID string, direction int) ([]string, []string, int, error) {
	if direction != 1 && direction != -1 {
		return likes, dislikes, 0, ErrInvalidVoteDirection
	}

	liked := contains(likes, voterID)
	disliked := contains(dislikes, voterID)

	likes = remove(likes, voterID)
	dislikes = remove(dislikes, voterID)

	value := 0
	switch {
	case direction == 1 && !liked:
		likes = append(likes, voterID)
		value = 1
	case direction == -1 && !disliked:
		dislikes = append(dislikes, voterID)
		value = -1
	}
	return likes, dislikes, value, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

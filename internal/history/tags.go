package history

import "time"

// TagsAtDate reconstructs which tags existed at a past date by replaying
// the ref-lifecycle event log against the current tag set. Every tag
// event newer than the date is undone: a deletion means the tag still
// existed back then, so it is restored; a push means the tag did not yet
// exist under that name and commit, so it is removed.
//
// The input tag list may contain duplicates and the event log may be in
// any order. A push whose tag is not in the working set yet is held as a
// pending cancellation and consumed by the matching delete, so a
// same-ref push/delete pair after the date nets to nothing no matter
// which event is processed first. The inputs are not mutated.
func TagsAtDate(date time.Time, tags []Tag, events []Event) []Tag {
	reconstructed := make([]Tag, len(tags))
	copy(reconstructed, tags)

	var pending []Tag
	for _, event := range events {
		if !event.Date.After(date) || event.RefType != RefTypeTag {
			continue
		}
		tag := Tag{Name: event.RefName, CommitID: event.CommitID}
		switch event.Action {
		case ActionDeleted:
			if cancelled, ok := removeFirstTag(pending, tag); ok {
				pending = cancelled
			} else {
				reconstructed = append(reconstructed, tag)
			}
		case ActionPushedNew, ActionPushedTo:
			if removed, ok := removeFirstTag(reconstructed, tag); ok {
				reconstructed = removed
			} else {
				pending = append(pending, tag)
			}
		}
	}
	return reconstructed
}

// removeFirstTag removes the first entry matching both name and commit
// id. One event cancels exactly one tag entry, which keeps replay stable
// when the tag list carries duplicates.
func removeFirstTag(tags []Tag, target Tag) ([]Tag, bool) {
	for i, tag := range tags {
		if tag.Name == target.Name && tag.CommitID == target.CommitID {
			return append(tags[:i:i], tags[i+1:]...), true
		}
	}
	return tags, false
}

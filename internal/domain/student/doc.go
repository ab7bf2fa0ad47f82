// Package student contains the roster entry model.
//
// A Student carries an opaque ID, a unique display name and two sparse maps
// keyed by deliverable id:
//
//   - Grades: numeric score in [1, 6], absent when ungraded
//   - Comments: free text, absent when empty
//
// The package also defines Slot, the whole-document storage contract that
// every persistence backend implements, and the JSON roster codec those
// backends share.
//
//	s := student.New(student.NewID(), "Anna Muster")
//	s.Grades["DSC1"] = 4.5
//
//	data, _ := student.EncodeRoster([]student.Student{s})
//	roster, _ := student.DecodeRoster(data)
package student

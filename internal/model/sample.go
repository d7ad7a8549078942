package model

import "time"

// SampleDatabase seeds a first run with a small, realistic aggregate.
func SampleDatabase(now time.Time) Database {
	db := NewDatabase()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	home := NewArea("Home", now)
	work := NewArea("Work", now)
	db.Areas = append(db.Areas, home, work)

	errands := Tag{ID: NewID(), Name: "Errand"}
	db.Tags = append(db.Tags, errands, Tag{ID: NewID(), Name: "Important"})

	launch := NewProject("Launch website", now)
	launch.AreaID = Ptr(work.ID)
	launch.Deadline = Ptr(day.AddDate(0, 0, 14))
	db.Projects = append(db.Projects, launch)

	design := NewHeading("Design", launch.ID, now)
	db.Headings = append(db.Headings, design)

	inbox := NewTask("Read the welcome guide", now)
	inbox.Notes = "Things keeps **Inbox**, **Today** and **Upcoming** in sync."

	milk := NewTask("Buy milk", now)
	milk.StartDate = Ptr(day)
	milk.AreaID = Ptr(home.ID)
	milk.TagIDs = []string{errands.ID}

	mockups := NewTask("Sketch mockups", now)
	mockups.ProjectID = Ptr(launch.ID)
	mockups.HeadingID = Ptr(design.ID)
	mockups.StartDate = Ptr(day.AddDate(0, 0, 2))

	copyTask := NewTask("Write landing copy", now)
	copyTask.ProjectID = Ptr(launch.ID)

	piano := NewTask("Learn piano", now)
	piano.IsSomeday = true

	rent := NewTask("Pay rent", now)
	rent.AreaID = Ptr(home.ID)
	rent.StartDate = Ptr(time.Date(day.Year(), day.Month()+1, 1, 0, 0, 0, 0, day.Location()))
	rule := RepeatRule{ID: NewID(), Type: RepeatOnSchedule, Frequency: FrequencyMonthly, Interval: 1}
	rent.RepeatRuleID = Ptr(rule.ID)
	if data, err := EncodeTemplate(rent); err == nil {
		rule.Template = data
	}
	db.RepeatRules = append(db.RepeatRules, rule)

	db.Tasks = append(db.Tasks, inbox, milk, mockups, copyTask, piano, rent)
	return db
}

package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/things/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func repeating(t *testing.T, db *model.Database, title string, start *time.Time, rule model.RepeatRule) model.Task {
	t.Helper()
	task := model.NewTask(title, date(2024, 1, 1))
	task.StartDate = start
	task.RepeatRuleID = model.Ptr(rule.ID)
	data, err := model.EncodeTemplate(task)
	require.NoError(t, err)
	rule.Template = data
	db.RepeatRules = append(db.RepeatRules, rule)
	db.Tasks = append(db.Tasks, task)
	return task
}

func TestMonthlyOnScheduleSpawnsNextMonth(t *testing.T) {
	db := model.NewDatabase()
	rule := model.RepeatRule{ID: "r1", Type: model.RepeatOnSchedule, Frequency: model.FrequencyMonthly, Interval: 1}
	task := repeating(t, &db, "Pay rent", model.Ptr(date(2024, 6, 1)), rule)

	res := New(time.UTC).ToggleCompletion(&db, task.ID, date(2024, 6, 1))
	require.True(t, res.Completed)
	require.NotNil(t, res.Spawned)
	require.Len(t, db.Tasks, 2)

	spawned := db.Tasks[1]
	assert.NotEqual(t, task.ID, spawned.ID)
	assert.Equal(t, "Pay rent", spawned.Title)
	assert.Equal(t, model.StatusOpen, spawned.Status)
	assert.Nil(t, spawned.CompletedAt)
	require.NotNil(t, spawned.StartDate)
	assert.Equal(t, date(2024, 7, 1), *spawned.StartDate)
	require.NotNil(t, spawned.RepeatRuleID)
	assert.Equal(t, "r1", *spawned.RepeatRuleID)

	assert.Equal(t, model.StatusCompleted, db.Tasks[0].Status)
	assert.Equal(t, date(2024, 6, 1), *db.Tasks[0].CompletedAt)
}

func TestAfterCompletionCountsFromCompletion(t *testing.T) {
	db := model.NewDatabase()
	rule := model.RepeatRule{ID: "r1", Type: model.RepeatAfterCompletion, Frequency: model.FrequencyDaily, Interval: 3}
	task := repeating(t, &db, "Water plants", model.Ptr(date(2024, 1, 1)), rule)

	today := date(2024, 3, 10)
	New(time.UTC).ToggleCompletion(&db, task.ID, today)
	require.Len(t, db.Tasks, 2)
	assert.Equal(t, today.AddDate(0, 0, 3), *db.Tasks[1].StartDate)
}

func TestOnScheduleWithoutStartUsesCompletion(t *testing.T) {
	db := model.NewDatabase()
	rule := model.RepeatRule{ID: "r1", Type: model.RepeatOnSchedule, Frequency: model.FrequencyWeekly, Interval: 2}
	task := repeating(t, &db, "Review", nil, rule)

	today := date(2024, 3, 10)
	New(time.UTC).ToggleCompletion(&db, task.ID, today)
	require.Len(t, db.Tasks, 2)
	assert.Equal(t, date(2024, 3, 24), *db.Tasks[1].StartDate)
}

func TestTemplateRefreshCarriesEdits(t *testing.T) {
	db := model.NewDatabase()
	rule := model.RepeatRule{ID: "r1", Type: model.RepeatOnSchedule, Frequency: model.FrequencyDaily, Interval: 1}
	task := repeating(t, &db, "Stretch", model.Ptr(date(2024, 5, 1)), rule)
	e := New(time.UTC)

	db.Tasks[0].Title = "Stretch for ten minutes"
	e.ToggleCompletion(&db, task.ID, date(2024, 5, 1))

	tmpl, err := model.DecodeTemplate(db.RepeatRules[0].Template)
	require.NoError(t, err)
	assert.Equal(t, "Stretch for ten minutes", tmpl.Title)
	assert.Equal(t, model.StatusOpen, tmpl.Status)
	assert.Nil(t, tmpl.CompletedAt)

	// The next completion spawns from the refreshed template.
	second := db.Tasks[1].ID
	e.ToggleCompletion(&db, second, date(2024, 5, 2))
	require.Len(t, db.Tasks, 3)
	assert.Equal(t, "Stretch for ten minutes", db.Tasks[2].Title)
}

func TestUncompleteLeavesSpawnedOccurrence(t *testing.T) {
	db := model.NewDatabase()
	rule := model.RepeatRule{ID: "r1", Type: model.RepeatOnSchedule, Frequency: model.FrequencyDaily, Interval: 1}
	task := repeating(t, &db, "Journal", model.Ptr(date(2024, 5, 1)), rule)
	e := New(time.UTC)

	e.ToggleCompletion(&db, task.ID, date(2024, 5, 1))
	res := e.ToggleCompletion(&db, task.ID, date(2024, 5, 1))
	assert.True(t, res.Found)
	assert.False(t, res.Completed)
	assert.Nil(t, res.Spawned)
	assert.Equal(t, model.StatusOpen, db.Tasks[0].Status)
	assert.Nil(t, db.Tasks[0].CompletedAt)
	assert.Len(t, db.Tasks, 2)
}

func TestToggleDegradesWithoutUsableRule(t *testing.T) {
	e := New(time.UTC)

	db := model.NewDatabase()
	orphan := model.NewTask("Orphan", date(2024, 1, 1))
	orphan.RepeatRuleID = model.Ptr("missing")
	db.Tasks = append(db.Tasks, orphan)
	res := e.ToggleCompletion(&db, orphan.ID, date(2024, 1, 2))
	assert.True(t, res.Completed)
	assert.Nil(t, res.Spawned)
	assert.Len(t, db.Tasks, 1)

	db = model.NewDatabase()
	broken := model.NewTask("Broken", date(2024, 1, 1))
	broken.RepeatRuleID = model.Ptr("r1")
	db.Tasks = append(db.Tasks, broken)
	db.RepeatRules = append(db.RepeatRules, model.RepeatRule{
		ID: "r1", Type: model.RepeatOnSchedule, Frequency: model.FrequencyDaily, Interval: 1,
		Template: []byte("{not json"),
	})
	res = e.ToggleCompletion(&db, broken.ID, date(2024, 1, 2))
	assert.True(t, res.Completed)
	assert.Len(t, db.Tasks, 1)
	assert.Equal(t, []byte("{not json"), db.RepeatRules[0].Template)

	res = e.ToggleCompletion(&db, "nope", date(2024, 1, 2))
	assert.False(t, res.Found)
}

func TestNextStartClampsMonthEnd(t *testing.T) {
	e := New(time.UTC)
	monthly := model.RepeatRule{Type: model.RepeatOnSchedule, Frequency: model.FrequencyMonthly, Interval: 1}
	yearly := model.RepeatRule{Type: model.RepeatOnSchedule, Frequency: model.FrequencyYearly, Interval: 1}

	cases := []struct {
		name string
		rule model.RepeatRule
		from time.Time
		want time.Time
	}{
		{"leap february", monthly, date(2024, 1, 31), date(2024, 2, 29)},
		{"plain february", monthly, date(2023, 1, 31), date(2023, 2, 28)},
		{"thirty day month", monthly, date(2024, 3, 31), date(2024, 4, 30)},
		{"year rollover", monthly, date(2024, 12, 15), date(2025, 1, 15)},
		{"leap day yearly", yearly, date(2024, 2, 29), date(2025, 2, 28)},
	}
	for _, tc := range cases {
		from := tc.from
		got := e.NextStart(&from, from, tc.rule)
		if !got.Equal(tc.want) {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestNextStartKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	e := New(loc)
	rule := model.RepeatRule{Type: model.RepeatAfterCompletion, Frequency: model.FrequencyDaily, Interval: 1}
	before := time.Date(2024, 3, 9, 9, 0, 0, 0, loc)
	got := e.NextStart(nil, before, rule)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 10, got.Day())
}

func TestWeeklyStepsWholeWeeksWhateverTheWeekdays(t *testing.T) {
	e := New(time.UTC)
	rule := model.RepeatRule{
		Type: model.RepeatOnSchedule, Frequency: model.FrequencyWeekly, Interval: 1,
		Weekdays: []model.Weekday{model.Monday, model.Friday},
	}
	mon := date(2024, 6, 3)
	assert.Equal(t, date(2024, 6, 10), e.NextStart(&mon, mon, rule))

	rule.Interval = 2
	wed := date(2024, 6, 5)
	assert.Equal(t, date(2024, 6, 19), e.NextStart(&wed, wed, rule))
}

func TestPreview(t *testing.T) {
	e := New(time.UTC)
	rule := model.RepeatRule{Type: model.RepeatOnSchedule, Frequency: model.FrequencyMonthly, Interval: 1}
	got := e.Preview(rule, date(2024, 1, 31), 3)
	assert.Equal(t, []time.Time{date(2024, 2, 29), date(2024, 3, 29), date(2024, 4, 29)}, got)
	assert.Empty(t, e.Preview(rule, date(2024, 1, 31), 0))
}

func TestAttachAndDetach(t *testing.T) {
	e := New(time.UTC)
	db := model.NewDatabase()
	task := model.NewTask("Standup", date(2024, 1, 1))
	task.StartDate = model.Ptr(date(2024, 1, 2))
	db.Tasks = append(db.Tasks, task)

	rule, err := e.Attach(&db, task.ID, model.RepeatOnSchedule, model.FrequencyDaily, 1, nil)
	require.NoError(t, err)
	require.Len(t, db.RepeatRules, 1)
	assert.Equal(t, rule.ID, *db.Tasks[0].RepeatRuleID)

	replaced, err := e.Attach(&db, task.ID, model.RepeatAfterCompletion, model.FrequencyWeekly, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, rule.ID, replaced.ID)
	require.Len(t, db.RepeatRules, 1)
	assert.Equal(t, model.FrequencyWeekly, db.RepeatRules[0].Frequency)

	tmpl, err := model.DecodeTemplate(db.RepeatRules[0].Template)
	require.NoError(t, err)
	assert.Equal(t, "Standup", tmpl.Title)

	_, err = e.Attach(&db, task.ID, model.RepeatOnSchedule, model.FrequencyDaily, 0, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInterval)
	_, err = e.Attach(&db, "missing", model.RepeatOnSchedule, model.FrequencyDaily, 1, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, e.Detach(&db, task.ID))
	assert.Nil(t, db.Tasks[0].RepeatRuleID)
	assert.Empty(t, db.RepeatRules)
	assert.False(t, e.Detach(&db, task.ID))
}

func TestPruneDropsUnreferencedRules(t *testing.T) {
	e := New(time.UTC)
	db := model.NewDatabase()
	kept := repeating(t, &db, "Water plants", nil, model.RepeatRule{ID: "kept", Type: model.RepeatOnSchedule, Frequency: model.FrequencyDaily, Interval: 1})
	repeating(t, &db, "Old chore", nil, model.RepeatRule{ID: "orphan", Type: model.RepeatOnSchedule, Frequency: model.FrequencyDaily, Interval: 1})
	db.Tasks = db.Tasks[:1]

	assert.Equal(t, 1, e.Prune(&db))
	require.Len(t, db.RepeatRules, 1)
	assert.Equal(t, *kept.RepeatRuleID, db.RepeatRules[0].ID)
	assert.Zero(t, e.Prune(&db))
}

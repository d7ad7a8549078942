package workflow

import "strings"

// List names a virtual list computed from task fields.
type List string

const (
	ListInbox    List = "inbox"
	ListToday    List = "today"
	ListUpcoming List = "upcoming"
	ListAnytime  List = "anytime"
	ListSomeday  List = "someday"
	ListLogbook  List = "logbook"
	ListTrash    List = "trash"
)

// Lists returns the virtual lists in sidebar order.
func Lists() []List {
	return []List{ListInbox, ListToday, ListUpcoming, ListAnytime, ListSomeday, ListLogbook, ListTrash}
}

func (l List) Title() string {
	switch l {
	case ListInbox:
		return "Inbox"
	case ListToday:
		return "Today"
	case ListUpcoming:
		return "Upcoming"
	case ListAnytime:
		return "Anytime"
	case ListSomeday:
		return "Someday"
	case ListLogbook:
		return "Logbook"
	case ListTrash:
		return "Trash"
	default:
		return string(l)
	}
}

func ParseList(raw string) (List, bool) {
	v := List(strings.ToLower(strings.TrimSpace(raw)))
	for _, l := range Lists() {
		if l == v {
			return l, true
		}
	}
	return "", false
}

package models

// UserRef identifies a board or card member by email.
type UserRef struct {
	Email string `json:"email"`
}

// MembershipRef is the viewer's per-board metadata: where the board sits
// on the viewer's grid and whether the viewer administers it. Distinct
// from board content; at most one per (user, board).
type MembershipRef struct {
	PosX    int  `json:"posX"`
	PosY    int  `json:"posY"`
	IsAdmin bool `json:"isAdmin"`
}

// Board represents a shared workspace of statuses and cards
type Board struct {
	ID         int64         `json:"id"`
	BoardName  string        `json:"boardName"`
	Users      []UserRef     `json:"users"`
	Membership MembershipRef `json:"userBoardReference"`
}

// Status represents a named column partitioning a board's cards
type Status struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	BoardID int64  `json:"boardId"`
}

// Label represents a colored tag; a card carries at most one
type Label struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Color   string `json:"color"`
	BoardID int64  `json:"boardId"`
}

// ChecklistSubItem is a second-level checklist entry
type ChecklistSubItem struct {
	ID              int64  `json:"id"`
	Content         string `json:"content"`
	Done            bool   `json:"done"`
	ChecklistItemID int64  `json:"checklistItemId"`
}

// ChecklistItem is a first-level checklist entry attached to a card
type ChecklistItem struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	Completed bool               `json:"completed"`
	CardID    int64              `json:"cardId"`
	SubItems  []ChecklistSubItem `json:"subItems,omitempty"`
}

// Card represents a task unit belonging to one board and one status.
// PrevStatusID exists only so the synchronizer knows which status bucket
// to refresh after a move; the server echoes it back untouched.
type Card struct {
	ID             int64           `json:"id"`
	CardTitle      string          `json:"cardTitle"`
	Description    string          `json:"description,omitempty"`
	StartDate      WireTime        `json:"startDate"`
	EndDate        WireTime        `json:"endDate"`
	Priority       int             `json:"priority"`
	Position       int             `json:"position"`
	Finished       bool            `json:"finished"`
	AttachedLinks  string          `json:"attachedLinks,omitempty"`
	BoardID        int64           `json:"board_id"`
	StatusID       int64           `json:"status_id"`
	PrevStatusID   int64           `json:"prev_status_id,omitempty"`
	Label          *Label          `json:"label,omitempty"`
	ChecklistItems []ChecklistItem `json:"checklistItems,omitempty"`
	Users          []UserRef       `json:"users,omitempty"`
}

// UserBoardPosition is a (user, board) grid coordinate tuple
type UserBoardPosition struct {
	UserID  int64 `json:"user_id"`
	BoardID int64 `json:"board_id"`
	PosX    int   `json:"posX"`
	PosY    int   `json:"posY"`
}

// ChatMessage is one realtime chat entry scoped to a board. There is no
// message identifier on the wire; (Email, Content, Timestamp) is the
// de-duplication key.
type ChatMessage struct {
	Email        string `json:"email"`
	Content      string `json:"content"`
	Timestamp    string `json:"timestamp,omitempty"`
	BoardID      int64  `json:"boardId,omitempty"`
	ProfileImage string `json:"profileImageBase64,omitempty"`
}

// Profile holds the viewer's account details
type Profile struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password1    string `json:"password1,omitempty"`
	Password2    string `json:"password2,omitempty"`
	ProfileImage string `json:"profileImageBase64,omitempty"`
}

// Subscription mirrors the billing status endpoint
type Subscription struct {
	Status            string `json:"subscriptionStatus"`
	ID                string `json:"stripeSubscriptionId"`
	CancelAtPeriodEnd bool   `json:"cancelAtPeriodEnd"`
}

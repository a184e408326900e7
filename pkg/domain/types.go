package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// FileRef points at an uploaded asset (cover image, PDF, profile picture).
// PublicID is nil when the asset is a placeholder the server never stored.
type FileRef struct {
	URL      string  `json:"url"`
	PublicID *string `json:"public_id"`
}

type User struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	ProfilePic FileRef  `json:"profile_pic"`
	Role       UserRole `json:"role"`
	Bio        string   `json:"bio,omitempty"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched
// when merged into an existing User.
type UserPatch struct {
	Name       *string
	Email      *string
	ProfilePic *FileRef
	Role       *UserRole
	Bio        *string
}

// Apply shallow-merges the patch into u and returns the result.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.ProfilePic != nil {
		u.ProfilePic = *p.ProfilePic
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	return u
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Book struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Author        string    `json:"author"`
	PublishedDate *string   `json:"publishedDate"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	Category      Category  `json:"category"`
	CoverImage    FileRef   `json:"coverImage"`
	PDF           FileRef   `json:"pdf"`
	Likes         []string  `json:"likes"`
	User          *User     `json:"user,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID appears in the book's likes.
func (b Book) LikedBy(userID string) bool {
	for _, id := range b.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// UploadedBy reports whether the book's populated uploader matches userID.
func (b Book) UploadedBy(userID string) bool {
	return b.User != nil && b.User.ID == userID
}

type Blog struct {
	ID          string    `json:"_id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       FileRef   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DiaryNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Entry     string    `json:"entry"`
	Mood      string    `json:"mood"`
	Tags      []string  `json:"tags"`
	Date      time.Time `json:"date"`
	UserID    string    `json:"userId"`
	DiaryID   string    `json:"diaryId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

package models

const (
	SlotAvailable = "available"
	SlotBooked    = "booked"

	BookingBooked    = "booked"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentReleased = "released"
)

type TeacherProfile struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint   `gorm:"not null;index"           json:"user_id"`
	Description    string `gorm:"type:text"                json:"description"`
	PricePerLesson int    `gorm:"not null"                 json:"price_per_lesson"`
	IsVerified     bool   `gorm:"not null;default:false"   json:"is_verified"`
	Rating         int    `gorm:"default:0"                json:"rating"`
}

type StudentProfile struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint   `gorm:"not null;index"           json:"user_id"`
	FullName string `gorm:"not null"                 json:"full_name"`
}

type Subject struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type TeacherSubject struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	TeacherID uint `gorm:"index"                    json:"teacher_id"`
	SubjectID uint `gorm:"index"                    json:"subject_id"`
}

type ScheduleSlot struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	TeacherID uint   `gorm:"index"                     json:"teacher_id"`
	StartTime string `gorm:"not null"                  json:"start_time"`
	EndTime   string `gorm:"not null"                  json:"end_time"`
	Status    string `gorm:"default:available"         json:"status"`
}

type Booking struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SlotID    uint   `gorm:"index"                    json:"slot_id"`
	StudentID uint   `gorm:"index"                    json:"student_id"`
	TeacherID uint   `gorm:"index"                    json:"teacher_id"`
	Status    string `gorm:"default:booked"           json:"status"`
}

type Payment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uint   `gorm:"index"                    json:"booking_id"`
	Amount    int    `gorm:"not null"                 json:"amount"`
	Status    string `gorm:"default:pending"          json:"status"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uint   `gorm:"index"                    json:"booking_id"`
	TeacherID uint   `gorm:"index"                    json:"teacher_id"`
	StudentID uint   `gorm:"index"                    json:"student_id"`
	Rating    int    `gorm:"not null"                 json:"rating"`
	Comment   string `gorm:"type:text"                json:"comment"`
}

type Lesson struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SubjectID   uint   `gorm:"index"                    json:"subject_id"`
	Title       string `gorm:"size:255"                 json:"title"`
	Description string `json:"description"`
}

type Question struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	LessonID uint   `gorm:"index"                    json:"lesson_id"`
	Text     string `json:"text"`
	Type     string `gorm:"default:single"           json:"type"`
}

type Answer struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint   `gorm:"index"                    json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `gorm:"default:false"            json:"is_correct"`
}

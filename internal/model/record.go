package model

// A Record represents a medical record stored in database.
type Record struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID        string `msgpack:"user_id"        storm:"index"`
	Title         string `msgpack:"title"`
	Category      string `msgpack:"category"`
	Date          string `msgpack:"date"`
	Doctor        string `msgpack:"doctor"`
	Hospital      string `msgpack:"hospital"`
	Location      string `msgpack:"location"`
	Symptoms      string `msgpack:"symptoms"`
	Diagnosis     string `msgpack:"diagnosis"`
	Prescription  string `msgpack:"prescription"`
	BloodPressure string `msgpack:"bp"`
	Weight        string `msgpack:"weight"`
	FollowUpDate  string `msgpack:"follow_up_date"`
	Notes         string `msgpack:"notes"`
	Files         []File `msgpack:"files"`
}

// A File is an attachment of a Record, its content is stored outside of the database.
type File struct {
	ID           string `msgpack:"id"`
	OriginalName string `msgpack:"original_name"`
	MimeType     string `msgpack:"mime_type"`
	Size         int64  `msgpack:"size"`
	Path         string `msgpack:"path"`
}

// File returns the attachment with the given id.
func (r *Record) File(id string) (File, bool) {
	for _, f := range r.Files {
		if f.ID == id {
			return f, true
		}
	}
	return File{}, false
}

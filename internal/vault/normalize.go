package vault

import (
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/valyala/fastjson"
)

// Normalize parses a listing payload `{"data": [...]}` into records.
// A missing or null data is an empty list, absent fields are empty strings.
func Normalize(payload []byte) ([]Record, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(payload)
	if err != nil {
		return nil, mverror.Wrap(mverror.Invalid, err, "could not parse records")
	}
	if v.Type() != fastjson.TypeObject {
		return nil, mverror.New(mverror.Invalid, "records payload is not an object")
	}

	records := []Record{}

	data := v.Get("data")
	if data == nil || data.Type() == fastjson.TypeNull {
		return records, nil
	}

	items, err := data.Array()
	if err != nil {
		return nil, mverror.Wrap(mverror.Invalid, err, "records data is not an array")
	}

	for i, item := range items {
		if item.Type() != fastjson.TypeObject {
			return nil, mverror.Newf(mverror.Invalid, "record %d is not an object", i)
		}
		records = append(records, normalize(item))
	}

	return records, nil
}

func normalize(v *fastjson.Value) Record {
	r := Record{
		ID:            identifier(v, "_id", "id"),
		Title:         fieldText(v, "title"),
		Category:      fieldText(v, "category", "type"),
		Date:          fieldText(v, "date"),
		Doctor:        fieldText(v, "doctor"),
		Hospital:      fieldText(v, "hospital"),
		Location:      fieldText(v, "location"),
		Symptoms:      fieldText(v, "symptoms"),
		Diagnosis:     fieldText(v, "diagnosis"),
		Prescription:  fieldText(v, "prescription"),
		BloodPressure: fieldText(v, "bp"),
		Weight:        fieldText(v, "weight"),
		FollowUpDate:  fieldText(v, "followUpDate"),
		Notes:         fieldText(v, "notes"),
		UserID:        identifier(v, "user_id"),
	}

	for _, f := range v.GetArray("files") {
		if f.Type() != fastjson.TypeObject {
			continue
		}
		r.Attachments = append(r.Attachments, AttachmentRef{
			URI:         fieldText(f, "uri", "url", "path"),
			MimeType:    fieldText(f, "mimeType", "mimetype", "type"),
			DisplayName: fieldText(f, "displayName", "originalname", "name", "filename"),
		})
	}

	return r
}

// fieldText returns the text of the first scalar field found among keys.
// Numbers and booleans are rendered as their JSON text.
func fieldText(v *fastjson.Value, keys ...string) string {
	for _, key := range keys {
		f := v.Get(key)
		if f == nil {
			continue
		}

		switch f.Type() {
		case fastjson.TypeString:
			s, _ := f.StringBytes()
			if len(s) > 0 {
				return string(s)
			}
		case fastjson.TypeNumber, fastjson.TypeTrue, fastjson.TypeFalse:
			return f.String()
		}
	}
	return ""
}

// identifier returns the first non-empty string or number found among keys.
func identifier(v *fastjson.Value, keys ...string) string {
	for _, key := range keys {
		f := v.Get(key)
		if f == nil {
			continue
		}

		switch f.Type() {
		case fastjson.TypeString:
			s, _ := f.StringBytes()
			if len(s) > 0 {
				return string(s)
			}
		case fastjson.TypeNumber:
			return f.String()
		}
	}
	return ""
}

// internal/domain/models/volunteerlimit.go
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// NoLimitSentinel is the wire representation of an unbounded limit.
// Existing documents store the volunteer limit either as this literal
// string or as a number, so both marshalers preserve that format.
const NoLimitSentinel = "No limit"

// VolunteerLimit is an optional upper bound on event volunteers:
// either unlimited or bounded by N.
type VolunteerLimit struct {
	Unlimited bool `bson:"-" json:"-"`
	N         int  `bson:"-" json:"-"`
}

// Unlimited returns the unbounded limit.
func UnlimitedVolunteers() VolunteerLimit {
	return VolunteerLimit{Unlimited: true}
}

// BoundedVolunteers returns a limit of n volunteers.
func BoundedVolunteers(n int) VolunteerLimit {
	return VolunteerLimit{N: n}
}

// Reached reports whether joined volunteers have hit the limit.
func (v VolunteerLimit) Reached(joined int) bool {
	return !v.Unlimited && joined >= v.N
}

func (v VolunteerLimit) String() string {
	if v.Unlimited {
		return NoLimitSentinel
	}
	return strconv.Itoa(v.N)
}

// ParseVolunteerLimit interprets client input: a number, a numeric string,
// or the "No limit" sentinel.
func ParseVolunteerLimit(raw string) (VolunteerLimit, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, NoLimitSentinel) {
		return UnlimitedVolunteers(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return VolunteerLimit{}, fmt.Errorf("volunteerLimit must be a number or %q", NoLimitSentinel)
	}
	if n <= 0 {
		return VolunteerLimit{}, fmt.Errorf("volunteerLimit must be positive")
	}
	return BoundedVolunteers(n), nil
}

func (v VolunteerLimit) MarshalJSON() ([]byte, error) {
	if v.Unlimited {
		return json.Marshal(NoLimitSentinel)
	}
	return json.Marshal(v.N)
}

func (v *VolunteerLimit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := ParseVolunteerLimit(s)
		if perr != nil {
			return perr
		}
		*v = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("volunteerLimit must be a number or %q", NoLimitSentinel)
	}
	if n <= 0 {
		return fmt.Errorf("volunteerLimit must be positive")
	}
	*v = BoundedVolunteers(n)
	return nil
}

func (v VolunteerLimit) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if v.Unlimited {
		return bson.MarshalValue(NoLimitSentinel)
	}
	return bson.MarshalValue(int32(v.N))
}

func (v *VolunteerLimit) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeString:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		parsed, err := ParseVolunteerLimit(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	case bson.TypeInt32:
		var n int32
		if err := bson.UnmarshalValue(t, data, &n); err != nil {
			return err
		}
		*v = BoundedVolunteers(int(n))
		return nil
	case bson.TypeInt64:
		var n int64
		if err := bson.UnmarshalValue(t, data, &n); err != nil {
			return err
		}
		*v = BoundedVolunteers(int(n))
		return nil
	case bson.TypeDouble:
		var f float64
		if err := bson.UnmarshalValue(t, data, &f); err != nil {
			return err
		}
		*v = BoundedVolunteers(int(f))
		return nil
	default:
		return fmt.Errorf("volunteerLimit: unsupported BSON type %v", t)
	}
}

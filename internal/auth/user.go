package auth

import "encoding/json"

// User is the backend-owned account projection. The gateway only ever
// reads the handful of fields that drive routing decisions; everything
// else is carried opaquely in raw and round-tripped to clients
// untouched, so backend schema growth never requires a change here.
type User struct {
	Id         string `json:"Id"`
	Username   string `json:"Username"`
	IsGuest    bool   `json:"IsGuest"`
	IsCustomer bool   `json:"IsCustomer"`
	IsBlocked  bool   `json:"IsBlocked"`

	raw json.RawMessage
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*u = User(a)
	u.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return u.raw, nil
	}
	type alias User
	return json.Marshal(alias(u))
}

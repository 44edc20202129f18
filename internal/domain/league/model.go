package league

import "fmt"

// League is a football league whose fixtures can be predicted on.
type League struct {
	ID      int64
	Name    string
	Country string
	Season  string
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id must be greater than zero")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

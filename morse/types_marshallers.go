package morse

import (
	"errors"
	"fmt"
	"strconv"
)

// (Un)marshallers for State, so connection state travels as a string
// through the panel's JSON and through config files instead of a bare
// int.
//
// this file should be go-generated, too

func (s State) MarshalJSON() ([]byte, error) {
	b, err := s.MarshalText()
	if err == nil {
		b = []byte(fmt.Sprintf("\"%s\"", string(b)))
	}
	return b, err
}

func (s *State) UnmarshalJSON(data []byte) error {
	dataLength := len(data)
	if data[0] != '"' || data[dataLength-1] != '"' {
		return errors.New("State.UnmarshalJSON: Invalid JSON provided")
	}
	return s.UnmarshalText(data[1 : dataLength-1])
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	str := string(b)
	// exact segment compare, Connected is a substring of Disconnected
	for i := 0; i < len(_State_index)-1; i++ {
		if _State_name[_State_index[i]:_State_index[i+1]] == str {
			*s = State(i)
			return nil
		}
	}
	i, err := strconv.Atoi(str)
	if err == nil {
		*s = State(i)
		return nil
	}
	return fmt.Errorf("Cannot unmarshall \"%s\" to State. Is it mispelled?", str)
}

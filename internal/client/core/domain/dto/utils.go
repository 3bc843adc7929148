package dto

import (
	"fmt"
	"sort"
	"strings"

	"afrikar/internal/client/core/myerrors"
)

func required(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", myerrors.ErrFieldIsEmpty, strings.Join(missing, ", "))
}

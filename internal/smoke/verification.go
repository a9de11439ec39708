package smoke

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// verifyCalculation checks a calculation response against the calculator's
// declared stages.
func verifyCalculation(meta Metadata, resp response) error {
	if resp.status != http.StatusOK {
		var eb errorBody
		_ = json.Unmarshal(resp.body, &eb)
		return fmt.Errorf("%s: status %d (%s: %s) request_id=%s", meta.ID, resp.status, eb.Error, eb.Message, resp.requestID)
	}

	var res Result
	if err := json.Unmarshal(resp.body, &res); err != nil {
		return fmt.Errorf("%s: decode result: %w", meta.ID, err)
	}
	if res.Value == nil {
		return fmt.Errorf("%s: response has no result value", meta.ID)
	}
	if !meta.HasStage(res.Stage) {
		return fmt.Errorf("%s: stage %q is not declared", meta.ID, res.Stage)
	}
	return nil
}

// verifyUnknown checks that an unregistered id is reported as ScoreNotFound.
func verifyUnknown(resp response) error {
	if resp.status != http.StatusNotFound {
		return fmt.Errorf("unknown calculator returned status %d, want %d", resp.status, http.StatusNotFound)
	}
	var eb errorBody
	if err := json.Unmarshal(resp.body, &eb); err != nil {
		return fmt.Errorf("decode unknown calculator error: %w", err)
	}
	if eb.Error != "ScoreNotFound" {
		return fmt.Errorf("unknown calculator returned error kind %q", eb.Error)
	}
	return nil
}

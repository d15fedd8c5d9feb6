package services

import "github.com/mohae/deepcopy"

// DeepCopyConfig copies a loosely-typed configuration, including typed leaf
// collections such as []string or []domain.RawStop.
func DeepCopyConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	out, _ := deepcopy.Copy(cfg).(map[string]any)
	return out
}

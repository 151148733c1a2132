package action

// Option customizes an EventConfig built by NewEventConfig.
type Option func(*EventConfig)

// NewEventConfig returns a button showing a toast, customized by opts.
func NewEventConfig(id string, opts ...Option) EventConfig {
	cfg := EventConfig{
		ID:     id,
		Kind:   KindButton,
		Action: ShowToast,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithKind(k Kind) Option {
	return func(cfg *EventConfig) { cfg.Kind = k }
}

func WithAction(a Action) Option {
	return func(cfg *EventConfig) { cfg.Action = a }
}

func WithTarget(target string) Option {
	return func(cfg *EventConfig) { cfg.Target = target }
}

// WithPayload merges p into the config payload.
func WithPayload(p Payload) Option {
	return func(cfg *EventConfig) {
		if cfg.Payload == nil {
			cfg.Payload = make(Payload, len(p))
		}
		for k, v := range p {
			cfg.Payload[k] = v
		}
	}
}

func WithFeedback(loading, success, errMsg string) Option {
	return func(cfg *EventConfig) {
		cfg.Feedback = &Feedback{Loading: loading, Success: success, Error: errMsg}
	}
}

func WithAccessibility(label, description string) Option {
	return func(cfg *EventConfig) {
		cfg.Accessibility = &Accessibility{AriaLabel: label, Description: description}
	}
}

// Presets for the platform's common controls.

// NavigateTo links to an in-app route.
func NavigateTo(id, path string, opts ...Option) EventConfig {
	base := []Option{WithKind(KindNavigation), WithAction(Navigate), WithTarget(path)}
	return NewEventConfig(id, append(base, opts...)...)
}

// EnrollInCourse enrolls the current student in a course.
// The enrollment itself is carried out by the control's click handler; the dispatch only confirms it.
func EnrollInCourse(courseID string, opts ...Option) EventConfig {
	base := []Option{
		WithKind(KindCourseEnroll),
		WithAction(ShowToast),
		WithPayload(Payload{"courseId": courseID, "title": "Inscription réussie !"}),
		WithFeedback("Inscription en cours...", "", "Échec de l'inscription"),
	}
	return NewEventConfig("enroll-"+courseID, append(base, opts...)...)
}

// StartLessonOf opens a lesson; the route is handled by the control's click handler.
func StartLessonOf(lessonID string, opts ...Option) EventConfig {
	base := []Option{
		WithKind(KindLessonStart),
		WithAction(StartLesson),
		WithPayload(Payload{"lessonId": lessonID}),
	}
	return NewEventConfig("lesson-"+lessonID, append(base, opts...)...)
}

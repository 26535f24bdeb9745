package tips

import "time"

// healthTips es la lista fija del original.
var healthTips = []string{
	"Try to walk for at least 30 minutes each day.",
	"Stay hydrated! Drink at least 8 glasses of water daily.",
	"Eating colorful fruits and vegetables helps maintain good health.",
	"Don't forget to take your medications as prescribed.",
	"Regular social interaction is important for mental health.",
	"Stretching in the morning can help reduce stiffness.",
	"Regular blood pressure monitoring helps prevent health complications.",
	"Schedule regular check-ups with your doctor.",
	"Meditation and deep breathing can help reduce stress.",
	"Getting 7-8 hours of sleep is essential for good health.",
	"Limit salt and sugar intake for better heart health.",
	"Maintain a healthy weight through diet and exercise.",
	"Puzzles and brain games help keep your mind sharp.",
	"Stay up to date with vaccinations, including annual flu shots.",
	"Regular eye exams are important, especially as you age.",
}

type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// Of devuelve el tip de una fecha. Rotación determinista por día del año
// (el original elegía al azar; determinista es igual de útil y testeable).
func (s *Service) Of(day time.Time) string {
	return healthTips[day.YearDay()%len(healthTips)]
}

// Today devuelve el tip del día corriente.
func (s *Service) Today() string {
	return s.Of(s.now())
}

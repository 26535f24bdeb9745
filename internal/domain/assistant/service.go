package assistant

import (
	"context"
	"fmt"
	"strings"

	"serenity/internal/ports/chat"
)

// Reply es la respuesta del asistente. Emergency marca que el mensaje
// disparó una palabra clave de emergencia (la UI lo resalta).
type Reply struct {
	Text      string
	Emergency bool
}

const helpReply = "I'm here to help! I can assist with medication reminders, health tracking, emergency contacts, and answer health-related questions. What would you like help with?"

// quickResponses responde saludos y frases frecuentes sin salir al generador.
// Es una lista y no un map: ante un mensaje con dos keywords gana siempre la
// primera del orden declarado, así la respuesta es determinista.
var quickResponses = []struct {
	keyword string
	reply   string
}{
	{"hello", "Hello! How are you feeling today?"},
	{"hi", "Hi there! How can I assist you today?"},
	{"good morning", "Good morning! I hope you're having a wonderful day."},
	{"good afternoon", "Good afternoon! How are you doing today?"},
	{"good evening", "Good evening! How has your day been?"},
	{"how are you", "I'm doing well, thank you for asking! How are you feeling today?"},
	{"thank you", "You're welcome! Is there anything else I can help you with?"},
	{"goodbye", "Goodbye! Take care and have a wonderful day."},
	{"bye", "Bye for now! Don't hesitate to chat again if you need anything."},
	{"help", helpReply},
}

var emergencyKeywords = []string{
	"emergency", "help me", "severe pain", "chest pain", "can't breathe",
	"heart attack", "stroke", "bleeding", "unconscious", "fell and can't get up",
}

const emergencyReply = "This sounds like an emergency! Please call 911 or your local emergency number immediately. Don't wait for a response here."

type condition struct {
	Name        string
	Advice      string
	Medications []string
}

// healthKnowledge es la mini base de condiciones comunes. Misma regla que
// quickResponses: lista ordenada para que el match sea determinista.
var healthKnowledge = []condition{
	{
		Name:        "headache",
		Advice:      "For headaches, it's important to stay hydrated and rest in a quiet, dark room if possible.",
		Medications: []string{"acetaminophen (Tylenol)", "ibuprofen (Advil, Motrin)", "aspirin"},
	},
	{
		Name:        "cold",
		Advice:      "Rest, stay hydrated, and consider over-the-counter medications for symptom relief.",
		Medications: []string{"acetaminophen", "decongestants", "cough suppressants"},
	},
	{
		Name:        "fever",
		Advice:      "Stay hydrated and rest. If fever persists over 101°F (38.3°C) for more than two days, consult a doctor.",
		Medications: []string{"acetaminophen (Tylenol)", "ibuprofen (Advil, Motrin)"},
	},
	{
		Name:        "allergies",
		Advice:      "Avoid triggers if known. Consider over-the-counter antihistamines for relief.",
		Medications: []string{"loratadine (Claritin)", "cetirizine (Zyrtec)", "diphenhydramine (Benadryl)"},
	},
}

const fallbackReply = "I'm sorry, I couldn't process your request at this time. Please try again later."

const promptTemplate = `You are a helpful health assistant for seniors.
Please provide a clear, concise, and compassionate response to the following question.
Focus on providing accurate health information, but always remind users to consult healthcare professionals for medical advice.

User question: %s
`

type Service struct {
	generator chat.Generator // puede ser nil: solo reglas locales + fallback
}

func NewService(generator chat.Generator) *Service {
	return &Service{generator: generator}
}

// Reply despacha en el orden del original: quick responses, emergencias,
// base de conocimiento y recién ahí el generador. Si el generador falla o
// no está configurado, responde el fallback genérico sin filtrar detalles
// del error al cliente.
func (s *Service) Reply(ctx context.Context, message string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return Reply{Text: helpReply}
	}

	for _, qr := range quickResponses {
		if strings.Contains(msg, qr.keyword) {
			return Reply{Text: qr.reply}
		}
	}

	for _, keyword := range emergencyKeywords {
		if strings.Contains(msg, keyword) {
			return Reply{Text: emergencyReply, Emergency: true}
		}
	}

	for _, c := range healthKnowledge {
		if strings.Contains(msg, c.Name) {
			return Reply{Text: fmt.Sprintf("%s Common medications include: %s.", c.Advice, strings.Join(c.Medications, ", "))}
		}
	}

	if s.generator == nil {
		return Reply{Text: fallbackReply}
	}

	text, err := s.generator.Generate(ctx, fmt.Sprintf(promptTemplate, message))
	if err != nil || strings.TrimSpace(text) == "" {
		return Reply{Text: fallbackReply}
	}
	return Reply{Text: text}
}

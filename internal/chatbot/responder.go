// Package chatbot answers general health questions from a fixed keyword table.
package chatbot

import "strings"

const WelcomeMessage = "Hello! I'm your medical assistant. How can I help you today?"

type rule struct {
	keywords []string
	reply    string
}

// Order matters: the first rule with a matching keyword wins.
var rules = []rule{
	{[]string{"headache", "head pain"}, "Headaches can have various causes. Common remedies include rest, hydration, and over-the-counter pain relievers. If severe or persistent, please consult a doctor."},
	{[]string{"fever", "temperature"}, "A fever is often a sign of infection. Rest, stay hydrated, and monitor your temperature. Seek medical attention if fever is high (>103°F) or persistent."},
	{[]string{"cough", "cold"}, "For coughs and colds, rest, stay hydrated, and consider honey for cough relief. If symptoms persist or worsen, consult a healthcare provider."},
	{[]string{"pain", "hurt"}, "Pain can indicate various conditions. Rest the affected area and consider over-the-counter pain relievers. Seek medical help if pain is severe or persistent."},
	{[]string{"appointment", "doctor"}, "To book an appointment, go to the Doctors tab and select a doctor. You can also check their availability and book directly through the app."},
	{[]string{"emergency", "urgent"}, "If this is a medical emergency, please call emergency services immediately (911 in the US). This chatbot is for general information only."},
	{[]string{"hello", "hi", "hey"}, "Hello! I'm here to help with your medical questions. Feel free to ask about symptoms, medications, or general health advice."},
	{[]string{"thank"}, "You're welcome! I'm here to help. Is there anything else you'd like to know about your health?"},
	{[]string{"blood pressure", "bp"}, "Normal blood pressure is typically below 120/80 mmHg. High blood pressure can lead to serious health issues. Monitor regularly and consult a doctor if elevated."},
	{[]string{"diabetes", "blood sugar"}, "Diabetes requires careful management of blood sugar levels through diet, exercise, and medication. Regular monitoring and doctor visits are essential."},
	{[]string{"allergy", "allergic"}, "Allergies can cause various symptoms. Avoid triggers, consider antihistamines, and carry emergency medication if prescribed. See a doctor for severe reactions."},
	{[]string{"sleep", "insomnia"}, "Good sleep hygiene includes regular bedtime, avoiding screens before bed, and creating a comfortable environment. Consult a doctor if sleep problems persist."},
	{[]string{"diet", "nutrition"}, "A balanced diet with fruits, vegetables, lean proteins, and whole grains supports good health. Consider consulting a nutritionist for personalized advice."},
	{[]string{"exercise", "workout"}, "Regular exercise improves health and mood. Aim for 150 minutes of moderate activity weekly. Start slowly and consult a doctor before beginning a new program."},
	{[]string{"medication", "medicine"}, "Always take medications as prescribed. Don't stop without consulting your doctor. Report any side effects immediately."},
	{[]string{"vaccine", "vaccination"}, "Vaccines protect against serious diseases. Stay up-to-date with recommended vaccinations. Consult your doctor about any concerns."},
	{[]string{"mental health", "anxiety", "depression"}, "Mental health is as important as physical health. If you're struggling, consider talking to a mental health professional. You're not alone."},
	{[]string{"pregnancy", "pregnant"}, "Pregnancy requires special care and regular prenatal visits. Consult an obstetrician for personalized guidance and care."},
	{[]string{"child", "baby", "pediatric"}, "Children have unique health needs. Regular pediatric visits and vaccinations are crucial. Contact a pediatrician for specific concerns."},
	{[]string{"elderly", "aging", "senior"}, "Aging brings specific health considerations. Regular check-ups, medication reviews, and preventive care are important for seniors."},
}

// Respond returns the canned reply for input. It has no state.
func Respond(input string) string {
	lower := strings.ToLower(input)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.reply
			}
		}
	}
	return "I understand you're asking about '" + input + "'. While I can provide general health information, please consult a healthcare professional for specific medical advice. How else can I help you?"
}

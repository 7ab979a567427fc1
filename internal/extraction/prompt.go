package extraction

import (
	"fmt"
	"strings"

	"minutes/internal/meeting"
)

const systemPrompt = `You are a professional assistant that identifies ONLY explicitly mentioned tasks from meeting transcripts.

STRICT RULES:
1. ONLY extract tasks that are EXPLICITLY mentioned in the transcript.
2. NEVER invent, infer, or create tasks that aren't clearly stated in the transcript.
3. ONLY assign tasks to people who are EXPLICITLY mentioned as responsible in the transcript AND appear in the provided participant list.
4. If a task exists but has no clear assignee, mark it as 'Unassigned'.
5. If no tasks are mentioned at all, return an empty tasks array.
6. Do not try to be helpful by creating tasks - only report what's in the transcript.`

const userPromptTemplate = `Based on the meeting transcript below, identify ONLY explicitly mentioned tasks and action items.

IMPORTANT CONSTRAINTS:
- Task extraction should be CONSERVATIVE - only include tasks with clear action verbs and deliverables.
- A person can only be assigned a task if they are EXPLICITLY mentioned as responsible AND they appear in the team member list below.
- Return a COMPLETELY EMPTY tasks array if no explicit tasks are mentioned.

Format your response as a JSON object with a 'tasks' array. Each task should include:
- 'task': The specific action item mentioned (verbatim from transcript when possible)
- 'assignee': The person explicitly assigned (must match a name in team list) or '%s'
- 'due_date': Only if explicitly mentioned with a specific date, otherwise '%s'
- 'context': Short quote from transcript showing where task was mentioned

Meeting Transcript:
%s

Team Members (ONLY these people can be assigned tasks):
%s
If someone is mentioned in the transcript but isn't in this team list, DO NOT assign tasks to them.`

// rosterLines renders participants as "- Name: Expertise, Email: email".
func rosterLines(participants []meeting.Participant) string {
	var b strings.Builder
	for _, p := range participants {
		fmt.Fprintf(&b, "- %s: %s, Email: %s\n", p.Name, p.Expertise, p.Email)
	}
	return b.String()
}

func buildUserPrompt(transcript string, participants []meeting.Participant) string {
	return fmt.Sprintf(userPromptTemplate, meeting.Unassigned, meeting.NotSpecified, transcript, rosterLines(participants))
}

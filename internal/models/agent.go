package models

// AgentTypeFreigent is the agent type used for recommendation personas.
const AgentTypeFreigent = "freigent"

// AgentRecord represents a registered agent in the hub directory.
type AgentRecord struct {
	AgentID            string `json:"agent_id"`
	AgentType          string `json:"agent_type"`
	DisplayName        string `json:"display_name"`
	PersonalitySummary string `json:"personality_summary"`
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"heroes-service/models"
)

// Walks the full association lifecycle: create a power and a character,
// assign the power, read it back, unassign, and confirm the list is empty.
func TestAssignListUnassignFlow(t *testing.T) {
	env := newTestEnv(t)

	power := createPower(t, env, `{"power_name": "Web Shooting", "power_damage": 320}`)
	character := createCharacter(t, env,
		`{"name": "Spiderman", "secret_name": "Peter Parker", "age": 18, "character_type": "Hero"}`)

	cidStr := strconv.FormatInt(character.CharacterID, 10)
	pidStr := strconv.FormatInt(power.PowerID, 10)
	pairVars := map[string]string{"character_id": cidStr, "power_id": pidStr}
	characterVars := map[string]string{"character_id": cidStr}

	w := doJSON(t, env.characterPowers.AssignPower, "POST",
		"/characters/"+cidStr+"/powers/"+pidStr, "", pairVars)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.characterPowers.GetCharacterPowers, "GET",
		"/characters/"+cidStr+"/powers", "", characterVars)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var listed models.CharacterPowers
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode character powers: %v", err)
	}
	if listed.Character.Name != "Spiderman" {
		t.Errorf("Expected character Spiderman, got %q", listed.Character.Name)
	}
	if len(listed.Powers) != 1 || listed.Powers[0].PowerName != "Web Shooting" {
		t.Fatalf("Expected exactly the assigned power, got %+v", listed.Powers)
	}

	w = doJSON(t, env.characterPowers.UnassignPower, "DELETE",
		"/characters/"+cidStr+"/powers/"+pidStr, "", pairVars)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var unassigned models.UnassignedPower
	if err := json.Unmarshal(w.Body.Bytes(), &unassigned); err != nil {
		t.Fatalf("decode unassign response: %v", err)
	}
	if unassigned.DeletedPower.PowerName != "Web Shooting" {
		t.Errorf("Expected deleted_power Web Shooting, got %+v", unassigned.DeletedPower)
	}
	if unassigned.DeletedFrom.Name != "Spiderman" {
		t.Errorf("Expected deleted_from Spiderman, got %+v", unassigned.DeletedFrom)
	}

	w = doJSON(t, env.characterPowers.GetCharacterPowers, "GET",
		"/characters/"+cidStr+"/powers", "", characterVars)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode character powers: %v", err)
	}
	if len(listed.Powers) != 0 {
		t.Errorf("Expected no powers after unassign, got %+v", listed.Powers)
	}
}

func TestAssignPowerMissingEntities(t *testing.T) {
	env := newTestEnv(t)
	power := createPower(t, env, `{"power_name": "Flight", "power_damage": 10}`)
	pidStr := strconv.FormatInt(power.PowerID, 10)

	w := doJSON(t, env.characterPowers.AssignPower, "POST",
		"/characters/999/powers/"+pidStr, "",
		map[string]string{"character_id": "999", "power_id": pidStr})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing character, got %d", w.Code)
	}
}

func TestAssignPowerTwiceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	power := createPower(t, env, `{"power_name": "Flight", "power_damage": 10}`)
	character := createCharacter(t, env, `{"name": "Storm", "character_type": "Hero"}`)

	vars := map[string]string{
		"character_id": strconv.FormatInt(character.CharacterID, 10),
		"power_id":     strconv.FormatInt(power.PowerID, 10),
	}
	target := "/characters/" + vars["character_id"] + "/powers/" + vars["power_id"]

	if w := doJSON(t, env.characterPowers.AssignPower, "POST", target, "", vars); w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	if w := doJSON(t, env.characterPowers.AssignPower, "POST", target, "", vars); w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate assignment, got %d", w.Code)
	}
}

func TestUnassignPowerNotAssigned(t *testing.T) {
	env := newTestEnv(t)
	power := createPower(t, env, `{"power_name": "Flight", "power_damage": 10}`)
	character := createCharacter(t, env, `{"name": "Storm", "character_type": "Hero"}`)

	vars := map[string]string{
		"character_id": strconv.FormatInt(character.CharacterID, 10),
		"power_id":     strconv.FormatInt(power.PowerID, 10),
	}

	w := doJSON(t, env.characterPowers.UnassignPower, "DELETE",
		"/characters/"+vars["character_id"]+"/powers/"+vars["power_id"], "", vars)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unassigned pair, got %d", w.Code)
	}
}

func TestGetCharacterPowersBadID(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.characterPowers.GetCharacterPowers, "GET",
		"/characters/abc/powers", "", map[string]string{"character_id": "abc"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for non-numeric id, got %d", w.Code)
	}
}

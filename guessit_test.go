/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/taddelt/guessitifyoucan/games/guessit"
)

func dial(t *testing.T, srv *httptest.Server, gameID string, header http.Header) (*websocket.Conn, *http.Response) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/guessit/" + gameID + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn, resp
}

// readType reads messages until one of the wanted type arrives.
func readType(t *testing.T, conn *websocket.Conn, want string, into any) {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}

		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("bad message %s: %v", data, err)
		}
		if env.Type != want {
			continue
		}

		if into != nil {
			if err := json.Unmarshal(data, into); err != nil {
				t.Fatalf("decoding %s: %v", data, err)
			}
		}
		return
	}
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()

	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("sending %s: %v", msg.Type, err)
	}
}

func fetchState(t *testing.T, srv *httptest.Server, gameID string) guessit.State {
	t.Helper()

	resp, body := get(t, srv, "/guessit/"+gameID+"/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state = %d %s", resp.StatusCode, body)
	}

	var st guessit.State
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatal(err)
	}
	return st
}

func activeWords(t *testing.T, st guessit.State) []guessit.Word {
	t.Helper()

	if st.Active == nil {
		t.Fatal("no active player")
	}
	for _, a := range st.Assignments {
		if a.Team == st.Active.TeamIndex && a.Player == st.Active.PlayerIndex {
			return a.Words
		}
	}
	t.Fatalf("no assignment for %+v", st.Active)
	return nil
}

var testTeams = []guessit.Team{
	{Name: "Foxes", Color: "#ff8800", Players: []string{"Ann", "Ben"}},
	{Name: "Owls", Color: "#3355ff", Players: []string{"Cem", "Dee"}},
}

func TestFacilitatorIsFirstConnection(t *testing.T) {
	srv, _ := newTestServer(t)

	fac, resp := dial(t, srv, "room", nil)
	var info SessionInfoMessage
	readType(t, fac, "session_info", &info)
	if !info.IsFacilitator || info.Started || info.GameID != "room" {
		t.Fatalf("facilitator info = %+v", info)
	}

	spec, _ := dial(t, srv, "room", nil)
	readType(t, spec, "session_info", &info)
	if info.IsFacilitator {
		t.Fatal("second connection became facilitator")
	}

	send(t, spec, ClientMessage{Type: "start_session", Preset: "classic", Teams: testTeams})
	var rejected ErrorMessage
	readType(t, spec, "not_facilitator", &rejected)

	// The cookie from the first upgrade keeps the role across reconnects.
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("upgrade response carried no cookie")
	}
	header := http.Header{"Cookie": []string{cookies[0].Name + "=" + cookies[0].Value}}

	again, _ := dial(t, srv, "room", header)
	readType(t, again, "session_info", &info)
	if !info.IsFacilitator {
		t.Error("reconnecting facilitator lost the role")
	}
}

func TestWebsocketGameFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	fac, _ := dial(t, srv, "flow", nil)
	readType(t, fac, "session_info", nil)

	spec, _ := dial(t, srv, "flow", nil)
	readType(t, spec, "session_info", nil)

	send(t, fac, ClientMessage{Type: "start_session", Preset: "classic", Teams: testTeams})

	var started StateMessage
	for started.Event == nil {
		readType(t, fac, "state", &started)
	}
	if started.Event.Kind != guessit.EventSessionStarted || !started.State.Started {
		t.Fatalf("start broadcast = %+v", started)
	}
	if started.State.RoundCount != 4 || started.State.TotalTurns != 4 || started.State.PoolSize != 12 {
		t.Errorf("classic state = %+v", started.State)
	}

	var watched StateMessage
	for watched.Event == nil {
		readType(t, spec, "state", &watched)
	}
	if watched.Event.Kind != guessit.EventSessionStarted {
		t.Errorf("spectator saw %+v", watched.Event)
	}
	if len(watched.State.Assignments) != 0 || watched.State.TurnOutcomes != nil {
		t.Errorf("spectator received words: %+v", watched.State.Assignments)
	}
	if watched.State.Active == nil || watched.State.TotalTurns != 4 {
		t.Errorf("spectator state lost the turn: %+v", watched.State)
	}
	if len(fetchState(t, srv, "flow").Assignments) != 0 {
		t.Error("public state endpoint carries words")
	}

	send(t, fac, ClientMessage{Type: "advance_turn"})
	var failed ErrorMessage
	readType(t, fac, "error", &failed)
	if !strings.Contains(failed.Message, "unresolved") {
		t.Errorf("advance with open words = %q", failed.Message)
	}

	st := started.State
	words := activeWords(t, st)

	send(t, fac, ClientMessage{
		Type:   "use_joker",
		Team:   st.Active.TeamIndex,
		Player: st.Active.PlayerIndex,
		Word:   words[0].Text,
	})
	var joker JokerResultMessage
	readType(t, fac, "joker_result", &joker)
	if joker.Word != words[0].Text || joker.Replaced != (joker.Replacement != nil) {
		t.Errorf("joker_result = %+v", joker)
	}
	if joker.Replaced {
		words[0] = *joker.Replacement
	}

	var jokerSeen StateMessage
	for jokerSeen.Event == nil || jokerSeen.Event.Kind == guessit.EventSessionStarted {
		readType(t, spec, "state", &jokerSeen)
	}
	if jokerSeen.Event.Word != "" || jokerSeen.Event.Replacement != nil || len(jokerSeen.State.Assignments) != 0 {
		t.Errorf("spectator saw the joker words: %+v", jokerSeen.Event)
	}

	for _, w := range words {
		send(t, fac, ClientMessage{
			Type:    "record_result",
			Team:    st.Active.TeamIndex,
			Word:    w.Text,
			Outcome: guessit.OutcomeCorrect,
		})
	}

	send(t, fac, ClientMessage{Type: "advance_turn"})
	var turn TurnResultMessage
	readType(t, fac, "turn_result", &turn)
	if turn.Result.RoundEnded || turn.Result.GameEnded {
		t.Errorf("first turn ended the round: %+v", turn.Result)
	}

	st = fetchState(t, srv, "flow")
	if st.TurnsPlayed != 1 {
		t.Errorf("TurnsPlayed = %d", st.TurnsPlayed)
	}

	resp, body := get(t, srv, "/guessit/flow/standings")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("standings = %d", resp.StatusCode)
	}
	var standings StandingsMessage
	if err := json.Unmarshal([]byte(body), &standings); err != nil {
		t.Fatal(err)
	}
	if standings.Final || len(standings.Standings) != 2 || standings.Standings[0].RawCorrect != 3 {
		t.Errorf("standings = %+v", standings)
	}

	resp, body = get(t, srv, "/guessit/flow")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Round 1 of 4") {
		t.Errorf("board = %d %s", resp.StatusCode, body)
	}
}

func TestStartRejectsBadConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	fac, _ := dial(t, srv, "bad", nil)
	readType(t, fac, "session_info", nil)

	var msg ErrorMessage

	send(t, fac, ClientMessage{Type: "start_session"})
	readType(t, fac, "error", &msg)
	if msg.Message != errMissingConfig.Error() {
		t.Errorf("no config = %q", msg.Message)
	}

	send(t, fac, ClientMessage{Type: "start_session", Preset: "classic", Teams: testTeams[:1]})
	readType(t, fac, "error", &msg)
	if !strings.Contains(msg.Message, "invalid game config") {
		t.Errorf("one team = %q", msg.Message)
	}

	send(t, fac, ClientMessage{Type: "record_result", Word: "x", Outcome: guessit.OutcomeCorrect})
	readType(t, fac, "error", &msg)
	if !strings.Contains(msg.Message, "not started") {
		t.Errorf("record before start = %q", msg.Message)
	}

	// An empty round list plays the catalog defaults.
	cfg := guessit.GameConfig{Teams: testTeams, Categories: []string{"Tiere"}, TermsPerPlayer: 1}
	send(t, fac, ClientMessage{Type: "start_session", Config: &cfg})
	var st StateMessage
	for st.Event == nil {
		readType(t, fac, "state", &st)
	}
	if st.State.RoundCount != 4 || st.State.Round == nil || st.State.Round.ID != "Erklärbär" {
		t.Errorf("default rounds not applied: %+v", st.State)
	}
}

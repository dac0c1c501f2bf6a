// The hub is the thing the REPL talks to: it keeps named services, routes
// input either to itself (lines beginning 'hub'), to another service (lines
// beginning with its name), or to the current service as Minnow; and it
// owns the journal database, the system variables, and the snap tests.
package hub

import (
	"bufio"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tim-hardcastle/Minnow/database"
	"github.com/tim-hardcastle/Minnow/initializer"
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/sysvars"
	"github.com/tim-hardcastle/Minnow/text"
)

var MARGIN = 80

type Hub struct {
	services               map[string]*Service
	currentServiceName     string
	in                     io.Reader
	scanner                *bufio.Scanner
	out                    io.Writer
	anonymousServiceNumber int
	snap                   *Snap
	oldServiceName         string // Somewhere to keep the old service name while taking a snap.
	sysVars                map[string]object.Object
	lastError              *object.Error
	db                     *sql.DB
	username               string
	config                 *Config
}

func New(in io.Reader, out io.Writer) *Hub {
	hub := Hub{services: make(map[string]*Service), currentServiceName: "",
		in: in, scanner: bufio.NewScanner(in), out: out,
		sysVars: map[string]object.Object{}, config: &Config{}}
	for name, v := range sysvars.Sysvars {
		hub.sysVars[name] = v.Dflt
	}
	hub.loadConfig()
	hub.createService("", "", "")
	hub.currentServiceName = ""
	return &hub
}

// This takes the input from the REPL, and interprets it as a hub command if
// it begins with 'hub'; as an instruction to switch services if it consists
// only of the name of a service; as a line to be passed to a service if it
// begins with the name of a service; and as a line to be passed to the
// current service if none of the above hold.
func (hub *Hub) Do(line string) bool {

	hubWords := strings.Fields(line)
	if len(hubWords) == 0 {
		return false
	}

	// We may be talking to the hub.

	if hubWords[0] == "hub" {
		return hub.ParseHubCommand(hubWords[1:])
	}

	// Otherwise, we need to find a service to talk to.

	service, ok := hub.services[hubWords[0]]
	if ok {
		if len(hubWords) == 1 {
			hub.currentServiceName = hubWords[0]
			hub.WriteString(text.OK + "\n")
			return false
		}
		line = line[len(hubWords[0])+1:]
	} else {
		service, ok = hub.services[hub.currentServiceName]
	}
	if !ok {
		hub.WriteString(text.ERROR + "the hub can't find the service " +
			text.Emph(hub.currentServiceName) + "\n")
		return false
	}

	// If we do, we pass the line to the service and get back a string to
	// output. Error renderings take the same path as ordinary output, so
	// that a snap records what the user saw.

	result, err := service.Do(line)
	if err != nil {
		hub.lastError = err
		result = strings.TrimRight(initializer.DescribeError(err, service.GetSource()), "\n")
	}
	hub.WriteString(result + "\n")
	if hub.currentServiceName == "#snap" {
		hub.snap.AddInput(line)
		hub.snap.AddOutput(result)
	}
	return false
}

// ParseHubCommand returns true if the command is 'quit', since the hub
// can't quit from the REPL itself.
func (hub *Hub) ParseHubCommand(hubWords []string) bool {
	fieldCount := len(hubWords)
	if fieldCount == 0 {
		hub.help()
		return false
	}
	verb := hubWords[0]
	switch verb {

	// Verbs are in alphabetical order:
	// db, get, halt, help, log, quit, register, replay, reset, run, runs,
	// services, set, snap, test, undo, why

	case "db":
		switch {
		case fieldCount == 2 && hubWords[1] == "init":
			hub.configDb()
		case fieldCount == 2 && hubWords[1] == "status":
			hub.dbStatus()
		default:
			hub.WriteString(text.ERROR + "the " + text.Emph("hub db") + " command takes one parameter, " +
				text.Emph("init") + " or " + text.Emph("status") + "\n")
		}

	case "get":
		if fieldCount != 2 {
			hub.WriteString(text.ERROR + "the " + text.Emph("hub get") +
				" command takes the name of a system variable as a parameter\n")
			return false
		}
		value, ok := hub.sysVars[hubWords[1]]
		if !ok {
			hub.WriteString(text.ERROR + "the hub doesn't have a system variable " +
				text.Emph(hubWords[1]) + "\n")
			return false
		}
		hub.WriteString(object.EmphValue(value) + "\n")

	case "halt":
		name := hub.currentServiceName
		if fieldCount > 2 {
			hub.WriteString(text.ERROR + "the " + text.Emph("hub halt") +
				" command takes at most one parameter, the name of a service\n")
			return false
		}
		if fieldCount == 2 {
			if _, ok := hub.services[hubWords[1]]; ok {
				name = hubWords[1]
			} else {
				hub.WriteString(text.ERROR + "the hub can't find the service " +
					text.Emph(hubWords[1]) + "\n")
				return false
			}
		}
		if name == "" {
			hub.WriteString(text.ERROR + "the empty service is always running\n")
			return false
		}
		if name == hub.currentServiceName {
			hub.currentServiceName = ""
		}
		delete(hub.services, name)
		hub.WriteString(text.OK + "\n")

	case "help":
		switch {
		case fieldCount == 1:
			hub.help()
		case fieldCount > 2:
			hub.WriteString(text.ERROR + "the " + text.Emph("hub help") +
				" command takes at most one parameter\n")
		default:
			if helpMessage, ok := helpStrings[hubWords[1]]; ok {
				hub.WritePretty(helpMessage)
				hub.WriteString("\n")
			} else {
				hub.WriteString(text.ERROR + "the " + text.Emph("hub help") + " command doesn't accept " +
					text.Emph(hubWords[1]) + " as a parameter\n")
			}
		}

	case "log":
		switch {
		case fieldCount == 2 && hubWords[1] == "in":
			hub.logIn()
		case fieldCount == 2 && hubWords[1] == "out":
			hub.username = ""
			hub.WriteString(text.OK + "\n")
		default:
			hub.WriteString(text.ERROR + "the " + text.Emph("hub log") + " command takes one parameter, " +
				text.Emph("in") + " or " + text.Emph("out") + "\n")
		}

	case "quit":
		if fieldCount > 1 {
			hub.WriteString(text.ERROR + "the " + text.Emph("hub quit") + " command takes no parameters\n")
			return false
		}
		hub.quit()
		return true

	case "register":
		hub.register()

	case "replay":
		hub.oldServiceName = hub.currentServiceName
		switch {
		case fieldCount == 2:
			hub.playTest(hubWords[1], false)
		case fieldCount == 3:
			if hubWords[2] != "diff" {
				hub.WriteString(text.ERROR + "the word " + text.Emph(hubWords[2]) +
					" makes no sense there\n")
			} else {
				hub.playTest(hubWords[1], true)
			}
		default:
			hub.WriteString(text.ERROR + "the " + text.Emph("hub replay") +
				" command takes the filepath of a test as a parameter, optionally" +
				" followed by " + text.Emph("diff") + "\n")
		}
		hub.currentServiceName = hub.oldServiceName
		delete(hub.services, "#test")

	case "reset":
		if fieldCount > 2 {
			hub.WriteString(text.ERROR + "the " + text.Emph("hub reset") +
				" command takes at most one parameter, the name of a service\n")
			return false
		}
		name := hub.currentServiceName
		if fieldCount == 2 {
			name = hubWords[1]
		}
		service, ok := hub.services[name]
		if !ok {
			hub.WriteString(text.ERROR + "the hub can't find the service " +
				text.Emph(name) + "\n")
			return false
		}
		if service.GetScriptFilepath() == "" {
			hub.WriteString(text.ERROR + "the service " + text.Emph(name) +
				" isn't running a script\n")
			return false
		}
		hub.WriteString("Restarting script " + text.Emph(service.GetScriptFilepath()) +
			" as service " + text.Emph(name) + ".\n")
		hub.Start(name, service.GetScriptFilepath())

	case "run":
		switch fieldCount {
		case 1:
			hub.currentServiceName = ""
			hub.WriteString(text.OK + "\n")
		case 2:
			hub.WriteString("Starting script " + text.Emph(hubWords[1]) +
				" as service " + text.Emph("#"+strconv.Itoa(hub.anonymousServiceNumber)) + ".\n")
			hub.StartAnonymous(hubWords[1])
		case 3:
			if hubWords[2] == "as" {
				hub.WriteString(text.ERROR + "missing service name after " + text.Emph("as") + "\n")
				return false
			}
			hub.WriteString(text.ERROR + "the word " + text.Emph(hubWords[2]) +
				" doesn't make any sense there\n")
		case 4:
			if hubWords[2] != "as" {
				hub.WriteString(text.ERROR + "the word " + text.Emph(hubWords[2]) +
					" doesn't make any sense there\n")
				return false
			}
			hub.WriteString("Starting script " + text.Emph(hubWords[1]) +
				" as service " + text.Emph(hubWords[3]) + ".\n")
			hub.Start(hubWords[3], hubWords[1])
		default:
			hub.WriteString(text.ERROR + "too many words after " + text.Emph("hub run") + "\n")
		}

	case "runs":
		if hub.db == nil {
			hub.WriteString(text.ERROR + "the hub doesn't have a database: see " +
				text.Emph("hub help db") + "\n")
			return false
		}
		result, err := database.GetRuns(hub.db, hub.currentServiceName)
		if err != nil {
			hub.WriteString(text.ERROR + strings.TrimSpace(err.Error()) + "\n")
			return false
		}
		hub.WriteString(result)

	case "services":
		if fieldCount > 1 {
			hub.WriteString(text.ERROR + "the " + text.Emph("hub services") +
				" command takes no parameters\n")
			return false
		}
		hub.WriteString("\n")
		hub.listServices()

	case "set":
		if fieldCount < 3 {
			hub.WriteString(text.ERROR + "the " + text.Emph("hub set") +
				" command takes the name of a system variable followed by a value\n")
			return false
		}
		name := hubWords[1]
		sysVar, ok := sysvars.Sysvars[name]
		if !ok {
			hub.WriteString(text.ERROR + "the hub doesn't have a system variable " +
				text.Emph(name) + "\n")
			return false
		}
		value := parseSysvarValue(strings.Join(hubWords[2:], " "))
		if complaint := sysVar.Validator(value); complaint != "" {
			hub.WriteString(text.ERROR + complaint + "\n")
			return false
		}
		hub.sysVars[name] = value
		if name == "$color" {
			text.UseColor(value == object.TRUE)
		}
		hub.saveConfig()
		hub.WriteString(text.OK + "\n")

	case "snap":
		switch fieldCount {
		case 2:
			fieldOne := hubWords[1]
			if fieldOne == "good" || fieldOne == "bad" || fieldOne == "record" || fieldOne == "discard" {
				if hub.currentServiceName != "#snap" {
					hub.WriteString(text.ERROR + "you aren't taking a snap\n")
					return false
				}
				switch fieldOne {
				case "good":
					hub.WriteString(hub.snap.Save(GOOD) + "\n")
				case "bad":
					hub.WriteString(hub.snap.Save(BAD) + "\n")
				case "record":
					hub.WriteString(hub.snap.Save(RECORD) + "\n")
				case "discard":
					hub.WriteString(text.OK + "\n")
				}
				delete(hub.services, "#snap")
				hub.currentServiceName = hub.oldServiceName
				text.UseColor(hub.sysVars["$color"] == object.TRUE)
				return false
			}
			hub.startSnap(fieldOne, getUnusedTestFilename(fieldOne))
		case 4:
			if hubWords[2] != "as" {
				hub.WriteString(text.ERROR + "the word " + text.Emph(hubWords[2]) +
					" doesn't make any sense there\n")
				return false
			}
			hub.startSnap(hubWords[1], hubWords[3])
		default:
			hub.WriteString(text.ERROR + "the " + text.Emph("hub snap") +
				" command takes a script filepath, optionally followed by " +
				text.Emph("as <test filename>") + "\n")
		}

	case "test":
		if fieldCount != 2 {
			hub.WriteString(text.ERROR + "the " + text.Emph("hub test") +
				" command takes the filepath of a script as a parameter\n")
			return false
		}
		hub.TestScript(hubWords[1])

	case "undo":
		service, ok := hub.services[hub.currentServiceName]
		if !ok {
			hub.WriteString(text.ERROR + "the hub can't find the service " +
				text.Emph(hub.currentServiceName) + "\n")
			return false
		}
		result, _ := service.Undo()
		hub.WriteString(result + "\n")

	case "why":
		if hub.lastError == nil {
			hub.WriteString(text.ERROR + "there is no error to explain\n")
			return false
		}
		hub.WriteString("\n")
		hub.WritePretty(object.Explain(hub.lastError))
		hub.WriteString("\n")

	default:
		hub.WriteString(text.ERROR + "the hub doesn't recognize the command " +
			text.Emph(verb) + "\n")
	}
	return false
}

func (hub *Hub) startSnap(scriptFilepath, testFilename string) {
	hub.snap = NewSnap(scriptFilepath, testFilename)
	hub.oldServiceName = hub.currentServiceName
	// Golden files are plain text whatever $color says.
	text.UseColor(false)
	hub.Start("#snap", scriptFilepath)
	if hub.currentServiceName != "#snap" { // The script didn't build.
		text.UseColor(hub.sysVars["$color"] == object.TRUE)
		return
	}
	hub.WriteString("Recording is ON.\n")
}

func getUnusedTestFilename(scriptFilepath string) string {
	directoryName := text.FlattenedFilename(scriptFilepath)
	name := text.FlattenedFilename(scriptFilepath) + "_"

	tryNumber := 1
	tryName := ""

	for ; ; tryNumber++ {
		tryName = name + strconv.Itoa(tryNumber)
		_, err := os.Stat("tst/" + directoryName + "/" + tryName)
		if os.IsNotExist(err) {
			break
		}
	}
	return tryName
}

func (hub *Hub) quit() {
	hub.saveConfig()
	hub.WriteString(text.OK + "\n" + text.Logo() + "Thank you for using Minnow. Have a nice day!\n\n")
}

func (hub *Hub) help() {
	hub.WriteString("\n")
	hub.WriteString("Hub commands are:\n")
	hub.WriteString("\n")
	hub.WriteString(text.BULLET + "db <init/status>\n")
	hub.WriteString(text.BULLET + "get <system variable>\n")
	hub.WriteString(text.BULLET + "halt <service name>\n")
	hub.WriteString(text.BULLET + "help <topic>\n")
	hub.WriteString(text.BULLET + "log <in/out>\n")
	hub.WriteString(text.BULLET + "quit\n")
	hub.WriteString(text.BULLET + "register\n")
	hub.WriteString(text.BULLET + "replay <test filepath>\n")
	hub.WriteString(text.BULLET + "reset <service name>\n")
	hub.WriteString(text.BULLET + "run <filepath> as <service name>\n")
	hub.WriteString(text.BULLET + "runs\n")
	hub.WriteString(text.BULLET + "services\n")
	hub.WriteString(text.BULLET + "set <system variable> <value>\n")
	hub.WriteString(text.BULLET + "snap <filepath> as <test filename>\n")
	hub.WriteString(text.BULLET + "test <filepath>\n")
	hub.WriteString(text.BULLET + "undo\n")
	hub.WriteString(text.BULLET + "why\n")
	hub.WriteString("\n")
}

func (hub *Hub) WritePretty(s string) {
	for i := 0; i < len(s); {
		e := i + MARGIN
		j := 0
		if e > len(s) {
			j = len(s) - i
		} else {
			j = strings.LastIndexAny(s[i:e], " \n")
		}
		if j == -1 {
			j = MARGIN
		}
		hub.WriteString(s[i:i+j] + "\n")
		i = i + j + 1
	}
}

func (hub *Hub) WriteString(s string) {
	io.WriteString(hub.out, s)
}

var helpStrings = map[string]string{
	"db": text.Emph("hub db init") + " will ask you for the details of a database for the hub " +
		"to keep its journal in, and " + text.Emph("hub db status") + " will tell you about the " +
		"database it has.",
	"get": text.Emph("hub get") + " followed by the name of a system variable will show you its " +
		"value. The system variables are " + text.Emph("$prompt") + ", " + text.Emph("$color") +
		" and " + text.Emph("$journal") + ".",
	"halt": text.Emph("hub halt") + " followed by the name of a service will halt the service. " +
		"If no service name is given, the hub will halt the current service.",
	"help": text.Emph("hub help") + " followed by the name of a topic will supply you with " +
		"information on that topic.",
	"log": text.Emph("hub log in") + " and " + text.Emph("hub log out") + " say who you are or " +
		"that you've stopped being them. You need to " + text.Emph("hub register") + " first.",
	"quit": text.Emph("hub quit") + " closes everything down.",
	"register": text.Emph("hub register") + " will ask you for a username, an email address and " +
		"a password, and add you to the hub's database.",
	"replay": text.Emph("hub replay") + " followed by the filepath of a test will show you the " +
		"test being run. Add " + text.Emph("diff") + " to see how the results have changed.",
	"reset": text.Emph("hub reset") + " followed by the name of a service will reread and rerun " +
		"the service's script. If no service name is given the hub will reset the current service.",
	"run": text.Emph("hub run") + " without parameters will take you back to the plain REPL. With " +
		"one parameter (a valid filename) it will run the script as an anonymous service. By adding " +
		text.Emph("as <name>") + " you can name the service.",
	"runs": text.Emph("hub runs") + " will show you the journal's record of what the current " +
		"service has run, if the hub has a database and " + text.Emph("$journal") + " is on.",
	"services": text.Emph("hub services") + " will list all services currently running on the hub.",
	"set": text.Emph("hub set") + " followed by the name of a system variable and a value will " +
		"set the variable. The system variables are " + text.Emph("$prompt") + ", " +
		text.Emph("$color") + " and " + text.Emph("$journal") + ".",
	"snap": text.Emph("hub snap") + " followed by the filepath of a script starts recording your " +
		"session with it. Then " + text.Emph("hub snap good") + " says the recorded behavior is " +
		"correct, " + text.Emph("hub snap bad") + " says it's wrong, " + text.Emph("hub snap record") +
		" just keeps it, and " + text.Emph("hub snap discard") + " throws it away.",
	"test": text.Emph("hub test") + " followed by the filepath of a script will rerun the snap " +
		"tests recorded for it.",
	"undo": text.Emph("hub undo") + " takes back the last function or extension you declared at " +
		"the REPL.",
	"why": text.Emph("hub why") + " explains the last error at greater length.",
}

func (hub *Hub) StartAnonymous(scriptFilepath string) {
	hub.Start("#"+strconv.Itoa(hub.anonymousServiceNumber), scriptFilepath)
	hub.anonymousServiceNumber = hub.anonymousServiceNumber + 1
}

func (hub *Hub) Start(name, scriptFilepath string) {
	code := ""
	if scriptFilepath != "" {
		dat, err := os.ReadFile(scriptFilepath)
		if err != nil {
			hub.WriteString("\n" + text.ERROR + err.Error() + "\n")
			return
		}
		code = strings.TrimRight(string(dat), "\n") + "\n"
	}
	hub.currentServiceName = name
	hub.createService(name, scriptFilepath, code)
}

func (hub *Hub) createService(name, scriptFilepath, code string) {
	service := NewService(scriptFilepath, code)
	if err := service.Validate(); err != nil {
		hub.reportError(err, service)
		hub.logRun(scriptFilepath, err.ErrorId)
		hub.currentServiceName = ""
		return
	}
	hub.services[name] = service
	if scriptFilepath == "" {
		return
	}

	// A script that declares a main function gets it run at startup; one
	// that doesn't is a library for the REPL, which is also fine.

	output, err := service.RunMain()
	if output != "" {
		hub.WriteString(output + "\n")
	}
	if err != nil {
		if err.ErrorId == "eval/main/missing" {
			hub.logRun(scriptFilepath, "ok")
			return
		}
		hub.reportError(err, service)
		hub.logRun(scriptFilepath, err.ErrorId)
		return
	}
	hub.logRun(scriptFilepath, "ok")
}

func (hub *Hub) reportError(err *object.Error, service *Service) {
	hub.lastError = err
	hub.WriteString(initializer.DescribeError(err, service.GetSource()))
}

func (hub *Hub) GetCurrentServiceName() string {
	return hub.currentServiceName
}

// Prompt is what the REPL should show: the current service's name, if it
// has one, and then the $prompt system variable.
func (hub *Hub) Prompt() string {
	prompt := hub.sysVars["$prompt"].(*object.String).Value
	if hub.currentServiceName == "" {
		return prompt
	}
	return hub.currentServiceName + " " + prompt
}

func (hub *Hub) listServices() {
	if len(hub.services) == 1 {
		return // That would be the empty service, the REPL.
	}
	hub.WriteString("The hub is running the following services:\n\n")
	for k := range hub.services {
		if k == "" {
			continue
		}
		hub.WriteString("service " + text.Emph(k) + " running script " +
			text.Emph(filepath.Base(hub.services[k].GetScriptFilepath())) + "\n")
	}
	hub.WriteString("\n")
}

func parseSysvarValue(s string) object.Object {
	if len(s) >= 2 && strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") {
		return &object.String{Value: s[1 : len(s)-1]}
	}
	if s == "true" {
		return object.TRUE
	}
	if s == "false" {
		return object.FALSE
	}
	return &object.String{Value: s}
}

// prompt asks the user for one line through the hub's reader.
func (hub *Hub) prompt(query string) string {
	hub.WriteString(query + ": ")
	if !hub.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(hub.scanner.Text())
}

func (hub *Hub) configDb() {
	hub.WritePretty(database.GetDriverOptions())
	choice, err := strconv.Atoi(hub.prompt(""))
	sortedDrivers := database.GetSortedDrivers()
	if err != nil || choice < 0 || choice >= len(sortedDrivers) {
		hub.WriteString(text.ERROR + "that isn't the number of a driver\n")
		return
	}
	hub.config.Database.Driver = sortedDrivers[choice]
	hub.config.Database.Host = hub.prompt("Host")
	hub.config.Database.Port = hub.prompt("Port")
	hub.config.Database.Name = hub.prompt("Database name")
	hub.config.Database.User = hub.prompt("Username")
	hub.config.Database.Password = hub.prompt("Password")
	db, connErr := database.GetSqlDB(hub.config.Database.Driver, hub.config.Database.Host,
		hub.config.Database.Port, hub.config.Database.Name, hub.config.Database.User,
		hub.config.Database.Password)
	if connErr != nil {
		hub.WriteString(text.ERROR + strings.TrimSpace(connErr.Error()) + "\n")
		return
	}
	if initErr := database.InitJournal(db); initErr != nil {
		hub.WriteString(text.ERROR + strings.TrimSpace(initErr.Error()) + "\n")
		return
	}
	hub.db = db
	hub.saveConfig()
	hub.WriteString(text.OK + "\n")
}

func (hub *Hub) dbStatus() {
	if hub.config.Database.Driver == "" {
		hub.WriteString("The hub doesn't have a database: see " + text.Emph("hub help db") + ".\n")
		return
	}
	status := "not connected"
	if hub.db != nil {
		status = "connected"
	}
	hub.WriteString("The hub's journal is a " + text.Emph(hub.config.Database.Driver) +
		" database called " + text.Emph(hub.config.Database.Name) + ", " + status + ".\n")
}

func (hub *Hub) register() {
	if hub.db == nil {
		hub.WriteString(text.ERROR + "the hub doesn't have a database: see " +
			text.Emph("hub help db") + "\n")
		return
	}
	username := hub.prompt("Username")
	email := hub.prompt("Email")
	password := hub.prompt("Password")
	if err := database.AddUser(hub.db, username, email, password); err != nil {
		hub.WriteString(text.ERROR + strings.TrimSpace(err.Error()) + "\n")
		return
	}
	hub.username = username
	hub.WriteString(text.OK + "\n")
}

func (hub *Hub) logIn() {
	if hub.db == nil {
		hub.WriteString(text.ERROR + "the hub doesn't have a database: see " +
			text.Emph("hub help db") + "\n")
		return
	}
	username := hub.prompt("Username")
	password := hub.prompt("Password")
	if err := database.ValidateUser(hub.db, username, password); err != nil {
		hub.WriteString(text.ERROR + strings.TrimSpace(err.Error()) + "\n")
		return
	}
	hub.username = username
	hub.WriteString(text.OK + "\n")
}

// logRun notes a script run in the journal, if the hub has a database and
// $journal is on.
func (hub *Hub) logRun(scriptFilepath, outcome string) {
	if hub.db == nil || scriptFilepath == "" {
		return
	}
	if hub.sysVars["$journal"] != object.TRUE {
		return
	}
	database.LogRun(hub.db, hub.currentServiceName, scriptFilepath, outcome)
}

func (hub *Hub) TestScript(scriptFilepath string) {

	directoryName := "tst/" + text.FlattenedFilename(scriptFilepath)
	files, err := os.ReadDir(directoryName)
	if err != nil {
		hub.WriteString(text.ERROR + strings.TrimSpace(err.Error()) + "\n")
		return
	}
	hub.oldServiceName = hub.currentServiceName
	text.UseColor(false)
	for _, testFileInfo := range files {
		testFilepath := directoryName + "/" + testFileInfo.Name()
		test, err := readSnapFile(testFilepath)
		if err != nil {
			hub.WriteString(text.ERROR + strings.TrimSpace(err.Error()) + "\n")
			continue
		}
		if test.testType == RECORD {
			continue
		}
		hub.Start("#test", test.scriptFilepath)
		service, ok := hub.services["#test"]
		if !ok {
			continue // The script didn't build; Start already said so.
		}
		hub.WriteString("Running test " + text.Emph(testFilepath) + ".\n")
		executionMatchesTest := true
		for _, pair := range test.ioList {
			result := hub.doTestLine(service, pair.input)
			executionMatchesTest = executionMatchesTest && (result == pair.output)
		}
		outcome := "pass"
		switch {
		case executionMatchesTest && test.testType == BAD:
			hub.WriteString(text.ERROR + "bad behavior reproduced by test\n")
			hub.playTest(testFilepath, false)
			outcome = "fail"
		case !executionMatchesTest && test.testType == GOOD:
			hub.WriteString(text.ERROR + "good behavior not reproduced by test\n")
			hub.playTest(testFilepath, true)
			outcome = "fail"
		default:
			hub.WriteString("Test passed!\n")
		}
		hub.logRun(test.scriptFilepath, outcome)
	}
	delete(hub.services, "#test")
	hub.currentServiceName = hub.oldServiceName
	text.UseColor(hub.sysVars["$color"] == object.TRUE)
}

func (hub *Hub) playTest(testFilepath string, diffOn bool) {
	test, err := readSnapFile(testFilepath)
	if err != nil {
		hub.WriteString(text.ERROR + strings.TrimSpace(err.Error()) + "\n")
		return
	}
	text.UseColor(false)
	defer text.UseColor(hub.sysVars["$color"] == object.TRUE)
	hub.Start("#test", test.scriptFilepath)
	service, ok := hub.services["#test"]
	if !ok {
		return
	}
	for _, pair := range test.ioList {
		result := hub.doTestLine(service, pair.input)
		hub.WriteString("#test → " + pair.input + "\n")
		if result == pair.output || !diffOn {
			hub.WriteString(result + "\n")
		} else {
			hub.WriteString("was: " + pair.output + "\ngot: " + result + "\n")
		}
	}
}

// doTestLine runs one recorded line, rendering errors the same way the
// live session did, so that outputs compare byte for byte.
func (hub *Hub) doTestLine(service *Service, line string) string {
	result, err := service.Do(line)
	if err != nil {
		hub.lastError = err
		result = strings.TrimRight(initializer.DescribeError(err, service.GetSource()), "\n")
	}
	return result
}

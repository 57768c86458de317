package tools

import (
	"context"
	"fmt"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Simulated Windows/PowerShell diagnostic tools. All output is scripted;
// only the invocation protocol around these matters. Tools that stream
// multi-line command output declare Lines with an Interval so the frontend
// can reveal them progressively.

// RegisterDiagnostics registers the full simulated diagnostic toolset.
func RegisterDiagnostics(r *Registry) {
	r.Register(mcptypes.NewTool("scan_virus",
		mcptypes.WithDescription("Triggers a system virus scan using the default antivirus software (Windows Defender)."),
	), scanVirus)

	r.Register(mcptypes.NewTool("get_network_config",
		mcptypes.WithDescription("Retrieves and displays detailed IP configuration for all network adapters, similar to ipconfig /all."),
	), getNetworkConfig)

	r.Register(mcptypes.NewTool("get_system_info",
		mcptypes.WithDescription("Displays detailed hardware and software information about the computer, similar to systeminfo."),
	), getSystemInfo)

	r.Register(mcptypes.NewTool("check_disk_health",
		mcptypes.WithDescription("Checks the C: drive for errors and displays a status report, similar to chkdsk."),
	), checkDiskHealth)

	r.Register(mcptypes.NewTool("get_running_processes",
		mcptypes.WithDescription("Lists all currently running processes on the local machine, similar to the PowerShell cmdlet Get-Process."),
	), getRunningProcesses)

	r.Register(mcptypes.NewTool("test_network_connection",
		mcptypes.WithDescription("Performs a network connection test to a specified host and port, similar to Test-NetConnection."),
		mcptypes.WithString("computerName",
			mcptypes.Required(),
			mcptypes.Description(`The hostname or IP address to test the connection to. (e.g., "google.com", "8.8.8.8")`),
		),
		mcptypes.WithNumber("port",
			mcptypes.Description("The TCP port to test the connection on. Defaults to 80 if not specified."),
		),
	), testNetworkConnection)

	r.Register(mcptypes.NewTool("get_system_services",
		mcptypes.WithDescription("Lists all system services and their current status (Running, Stopped), similar to Get-Service."),
	), getSystemServices)

	r.Register(mcptypes.NewTool("install_ps_module",
		mcptypes.WithDescription("Finds and installs a PowerShell module from the PowerShell Gallery."),
		mcptypes.WithString("moduleName",
			mcptypes.Required(),
			mcptypes.Description(`The name of the PowerShell module to install (e.g., "Posh-Git", "dbatools").`),
		),
		mcptypes.WithBoolean("confirmNuget",
			mcptypes.Description("Set after the user confirms installation of the NuGet provider."),
		),
	), installPSModule)
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// intArg handles both float64 (JSON) and json.Number-shaped values.
func intArg(args map[string]any, name string, def int) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return def
	}
}

func boolArg(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}

func scanVirus(ctx context.Context, args map[string]any) (*Result, error) {
	lines := []string{
		"Starting Windows Defender scan...",
		"Scan engine version: 1.1.24040.1",
		`Scanning C:\Windows\System32...`,
		"[||||......] 25% complete. Files scanned: 15,342",
		`Scanning C:\Users\ITPro\Documents...`,
		"[||||||||||] 50% complete. Files scanned: 32,110",
		`No threats found in C:\Users\ITPro\Documents.`,
		"Scanning Program Files...",
		"[||||||||||||||] 75% complete. Files scanned: 89,567",
		"Scanning registry...",
		"[||||||||||||||||||||] 100% complete. Files scanned: 124,890",
		"Scan finished. No threats detected.",
		"Total scan time: 00:02:45",
	}
	return &Result{
		Display: Display{Lines: lines, Interval: 300 * time.Millisecond},
		RawData: "Windows Defender scan completed successfully. No threats were detected.",
	}, nil
}

func getNetworkConfig(ctx context.Context, args map[string]any) (*Result, error) {
	output := `
Windows IP Configuration

   Host Name . . . . . . . . . . . . : DESKTOP-ITPRO
   Primary Dns Suffix  . . . . . . . :
   Node Type . . . . . . . . . . . . : Hybrid
   IP Routing Enabled. . . . . . . . : No
   WINS Proxy Enabled. . . . . . . . : No

Ethernet adapter Ethernet0:

   Connection-specific DNS Suffix  . : hsd1.ca.comcast.net.
   Description . . . . . . . . . . . : Intel(R) 82574L Gigabit Network Connection
   Physical Address. . . . . . . . . : 00-0C-29-1C-7F-1E
   DHCP Enabled. . . . . . . . . . . : Yes
   Autoconfiguration Enabled . . . . : Yes
   IPv4 Address. . . . . . . . . . . : 192.168.1.102(Preferred)
   Subnet Mask . . . . . . . . . . . : 255.255.255.0
   Lease Obtained. . . . . . . . . . : Sunday, July 21, 2024 8:00:00 AM
   Lease Expires . . . . . . . . . . : Monday, July 22, 2024 8:00:00 AM
   Default Gateway . . . . . . . . . : 192.168.1.1
   DHCP Server . . . . . . . . . . . : 192.168.1.1
   DNS Servers . . . . . . . . . . . : 8.8.8.8
                                       8.8.4.4
   NetBIOS over Tcpip. . . . . . . . : Enabled
`
	return &Result{
		Display: Display{Text: output},
		RawData: output,
	}, nil
}

func getSystemInfo(ctx context.Context, args map[string]any) (*Result, error) {
	output := `
Host Name:                 DESKTOP-ITPRO
OS Name:                   Microsoft Windows 11 Pro
OS Version:                10.0.22631 N/A Build 22631
System Manufacturer:       VMware, Inc.
System Model:              VMware Virtual Platform
System Type:               x64-based PC
Processor(s):              1 Processor(s) Installed.
                           [01]: Intel64 Family 6 Model 158 Stepping 10 GenuineIntel ~2494 Mhz
BIOS Version:              VMware, Inc. VMW71.00V.19652011.B64.2204130541, 4/13/2022
Total Physical Memory:     16,384 MB
Available Physical Memory: 9,871 MB
Virtual Memory: Max Size:  20,480 MB
Virtual Memory: Available: 12,123 MB
Virtual Memory: In Use:    8,357 MB
Domain:                    WORKGROUP
`
	return &Result{
		Display: Display{Text: output},
		RawData: output,
	}, nil
}

func checkDiskHealth(ctx context.Context, args map[string]any) (*Result, error) {
	lines := []string{
		"Checking C: drive for errors...",
		"The type of the file system is NTFS.",
		"CHKDSK is verifying files (stage 1 of 3)...",
		"  135168 file records processed.",
		"File verification completed.",
		"CHKDSK is verifying indexes (stage 2 of 3)...",
		"  164234 index entries processed.",
		"Index verification completed.",
		"CHKDSK is verifying security descriptors (stage 3 of 3)...",
		"  135168 security descriptors processed.",
		"Security descriptor verification completed.",
		"Windows has scanned the file system and found no problems.",
		"No further action is required.",
		"",
		"  488281249 KB total disk space.",
		"  123456789 KB in use.",
		"  364824460 KB available.",
	}
	return &Result{
		Display: Display{Lines: lines, Interval: 250 * time.Millisecond},
		RawData: "CHKDSK completed. Windows has scanned the file system and found no problems.",
	}, nil
}

func getRunningProcesses(ctx context.Context, args map[string]any) (*Result, error) {
	output := `Handles  NPM(K)    PM(K)      WS(K)     CPU(s)     Id  SI ProcessName
-------  ------    -----      -----     ------     --  -- -----------
    880      34    45820      51236       2.41   4028   1 ApplicationFrameHost
    450      21    23876      29840       0.78   8192   1 CcmExec
   1230      45   102345      98765      12.34   1234   1 chrome
    670      29    34567      41234       1.98   5678   1 explorer
   2345     110   256789     310987      45.67   9101   1 Code
    150      10     8765      12345       0.23   1121   0 csrss`
	return &Result{
		Display: Display{Text: output},
		RawData: output,
	}, nil
}

func getSystemServices(ctx context.Context, args map[string]any) (*Result, error) {
	output := `Status   Name               DisplayName
------   ----               -----------
Running  AppIDSvc           Application Identity
Stopped  Appinfo            Application Information
Running  AppXSvc            AppX Deployment Service (AppXSVC)
Stopped  AudioEndpointBu... Windows Audio Endpoint Builder
Running  Audiosrv           Windows Audio
Running  BITS               Background Intelligent Transfer Ser...
Stopped  Browser            Computer Browser
Running  CoreMessaging...   CoreMessaging`
	return &Result{
		Display: Display{Text: output},
		RawData: output,
	}, nil
}

// testNetworkConnection computes a deterministic single-pass result: the TCP
// probe succeeds only for ports 80 and 443. No retries.
func testNetworkConnection(ctx context.Context, args map[string]any) (*Result, error) {
	computerName := stringArg(args, "computerName")
	port := intArg(args, "port", 80)
	tcpSuccess := port == 443 || port == 80

	lines := []string{
		fmt.Sprintf("Testing connection to %s on port %d...", computerName, port),
		fmt.Sprintf("ComputerName           : %s", computerName),
		"RemoteAddress          : 172.217.1.174",
		"InterfaceAlias         : Ethernet0",
		"SourceAddress          : 192.168.1.102",
		"PingSucceeded          : True",
		"PingReplyDetails (RTT) : 12 ms",
		fmt.Sprintf("TcpTestSucceeded       : %t", tcpSuccess),
		"",
		"Connection test complete.",
	}
	return &Result{
		Display: Display{Lines: lines, Interval: 200 * time.Millisecond},
		RawData: fmt.Sprintf("Connection test to %s on port %d completed. Ping succeeded. TCP test succeeded: %t.",
			computerName, port, tcpSuccess),
	}, nil
}

// installPSModule is a two-phase tool. Phase 1 (no confirmation flag)
// always returns a continuation asking the user to approve the NuGet
// provider; phase 2 (confirmNuget set) performs the simulated install. All
// state lives in the argument object.
func installPSModule(ctx context.Context, args map[string]any) (*Result, error) {
	moduleName := stringArg(args, "moduleName")

	if !boolArg(args, "confirmNuget") {
		return &Result{
			Display: Display{Text: "PowerShellGet requires the NuGet provider to continue."},
			Prompt: &Continuation{
				Message: "PowerShellGet requires the NuGet provider to continue. Do you want to install it?",
				Choices: []Choice{
					{
						Label: "Yes",
						Call: &Call{
							Name: "install_ps_module",
							Args: map[string]any{"moduleName": moduleName, "confirmNuget": true},
						},
					},
					{Label: "No", Text: "Cancelled by user."},
				},
			},
			RawData: "User was prompted to install the NuGet provider.",
		}, nil
	}

	lines := []string{
		fmt.Sprintf("NuGet provider accepted. Installing module '%s' from PSGallery...", moduleName),
		fmt.Sprintf("Fetching module metadata for '%s'...", moduleName),
		fmt.Sprintf("Downloading %s.1.2.3.nupkg...", moduleName),
		"[...                ] 10%",
		"[.........          ] 45%",
		"[...............    ] 78%",
		"[...................] 100%",
		fmt.Sprintf(`Installing module '%s' to C:\Program Files\PowerShell\Modules`, moduleName),
		"Installation complete.",
	}
	return &Result{
		Display: Display{Lines: lines, Interval: 250 * time.Millisecond},
		RawData: fmt.Sprintf("Module '%s' was successfully installed after user confirmed NuGet provider installation.", moduleName),
	}, nil
}
